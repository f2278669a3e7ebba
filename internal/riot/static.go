package riot

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/OPGLOL/opgl-profile-service/internal/models"
	"github.com/rs/zerolog/log"
)

// DefaultDataDragonURL is the public static-asset CDN
const DefaultDataDragonURL = "https://ddragon.leagueoflegends.com"

// FallbackVersion is used whenever the version list cannot be fetched or parsed
var FallbackVersion = models.GameVersion{Full: "14.24.1", Major: "14", Minor: "24"}

// StaticClient reads versioned static assets from Data Dragon
type StaticClient struct {
	baseURL   string
	transport *transport
}

// NewStaticClient creates a new StaticClient instance. Data Dragon needs no API key.
func NewStaticClient(baseURL string, requestTimeout time.Duration) *StaticClient {
	if baseURL == "" {
		baseURL = DefaultDataDragonURL
	}

	return &StaticClient{
		baseURL:   strings.TrimRight(baseURL, "/"),
		transport: newTransport("", requestTimeout, 0),
	}
}

// LatestVersion returns the newest game version, or FallbackVersion on any failure
func (staticClient *StaticClient) LatestVersion(ctx context.Context) models.GameVersion {
	versions, err := doRequest[[]string](ctx, staticClient.transport, staticClient.baseURL+"/api/versions.json")
	if err != nil {
		log.Warn().Err(err).Msg("Failed to fetch game versions, using fallback")
		return FallbackVersion
	}

	if len(*versions) == 0 {
		log.Warn().Msg("Empty game version list, using fallback")
		return FallbackVersion
	}

	version, ok := ParseVersion((*versions)[0])
	if !ok {
		log.Warn().Str("version", (*versions)[0]).Msg("Unparseable game version, using fallback")
		return FallbackVersion
	}

	return version
}

// ParseVersion splits "major.minor.patch" into a GameVersion
func ParseVersion(full string) (models.GameVersion, bool) {
	parts := strings.Split(full, ".")
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return models.GameVersion{}, false
	}

	return models.GameVersion{Full: full, Major: parts[0], Minor: parts[1]}, true
}

type championListResponse struct {
	Data map[string]struct {
		Key  string `json:"key"`
		Name string `json:"name"`
	} `json:"data"`
}

// ChampionNames maps numeric champion ids to display names for a version
func (staticClient *StaticClient) ChampionNames(ctx context.Context, version string) (map[int]string, error) {
	requestURL := fmt.Sprintf("%s/cdn/%s/data/en_US/champion.json", staticClient.baseURL, version)

	championList, err := doRequest[championListResponse](ctx, staticClient.transport, requestURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch champion list: %w", err)
	}

	names := make(map[int]string, len(championList.Data))
	for _, champion := range championList.Data {
		championID, err := strconv.Atoi(champion.Key)
		if err != nil {
			continue
		}
		names[championID] = champion.Name
	}

	return names, nil
}

// ProfileIconURL returns the CDN address of a profile icon
func (staticClient *StaticClient) ProfileIconURL(version string, iconID int) string {
	return fmt.Sprintf("%s/cdn/%s/img/profileicon/%d.png", staticClient.baseURL, version, iconID)
}

// PatchNotesURL returns the patch notes page for a version
func (staticClient *StaticClient) PatchNotesURL(version models.GameVersion, locale string) string {
	if locale == "" {
		locale = "en-us"
	}
	return fmt.Sprintf("https://www.leagueoflegends.com/%s/news/game-updates/patch-%s-%s-notes/", locale, version.Major, version.Minor)
}
