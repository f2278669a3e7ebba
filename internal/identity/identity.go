// Package identity parses Riot IDs of the form "gameName#tagLine".
package identity

import (
	"strings"

	apierrors "github.com/OPGLOL/opgl-profile-service/internal/errors"
	"github.com/OPGLOL/opgl-profile-service/internal/models"
)

const (
	maxGameNameLength = 50
	maxTagLineLength  = 20
)

// Parse splits raw on the first '#'. A missing or empty tag becomes defaultTagLine.
func Parse(raw string, defaultTagLine string) (models.Identity, error) {
	trimmed := strings.TrimSpace(raw)

	gameName, tagLine, _ := strings.Cut(trimmed, "#")
	gameName = strings.TrimSpace(gameName)
	tagLine = strings.TrimSpace(tagLine)

	if gameName == "" {
		return models.Identity{}, apierrors.InvalidRiotID("Riot ID must contain a game name")
	}

	if strings.Contains(tagLine, "#") {
		return models.Identity{}, apierrors.InvalidRiotID("Riot ID must contain at most one '#'")
	}

	if len([]rune(gameName)) > maxGameNameLength {
		return models.Identity{}, apierrors.InvalidRiotID("Game name is too long")
	}

	if tagLine == "" {
		tagLine = defaultTagLine
	}

	if len([]rune(tagLine)) > maxTagLineLength {
		return models.Identity{}, apierrors.InvalidRiotID("Tag line is too long")
	}

	return models.Identity{GameName: gameName, TagLine: tagLine}, nil
}
