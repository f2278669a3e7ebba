// Package region holds the Riot shard sets and the ordered probe used to
// find which shard knows a player.
package region

import (
	"context"
	"fmt"

	apierrors "github.com/OPGLOL/opgl-profile-service/internal/errors"
	"github.com/rs/zerolog/log"
)

// RoutingRegions are the continental clusters serving account and match data, in probe order
var RoutingRegions = []string{"europe", "americas", "asia", "sea"}

// PlatformRegions are the platform shards serving summoner, league and mastery data, in probe order
var PlatformRegions = []string{"eun1", "euw1", "na1", "kr", "br1", "jp1", "la1", "la2", "oc1", "tr1", "ru"}

var platformRouting = map[string]string{
	"br1":  "americas",
	"la1":  "americas",
	"la2":  "americas",
	"na1":  "americas",
	"oc1":  "americas",
	"jp1":  "asia",
	"kr":   "asia",
	"eun1": "europe",
	"euw1": "europe",
	"ru":   "europe",
	"tr1":  "europe",
	"ph2":  "sea",
	"sg2":  "sea",
	"th2":  "sea",
	"tw2":  "sea",
	"vn2":  "sea",
}

// RoutingForPlatform returns the continental cluster of a platform shard
func RoutingForPlatform(platform string) (string, bool) {
	routing, ok := platformRouting[platform]
	return routing, ok
}

// Probe looks up a resource on a single region
type Probe[T any] func(ctx context.Context, region string) (T, error)

// Resolve calls probe for each region in order and returns the first success
// together with the region that produced it. Faulting probes are skipped.
// When every region fails the error satisfies errors.Is(err, apierrors.ErrNotFound).
func Resolve[T any](ctx context.Context, regions []string, probe Probe[T]) (T, string, error) {
	var zero T

	for _, candidate := range regions {
		if err := ctx.Err(); err != nil {
			return zero, "", err
		}

		result, err := probe(ctx, candidate)
		if err != nil {
			log.Debug().Err(err).Str("region", candidate).Msg("Region probe failed")
			continue
		}

		return result, candidate, nil
	}

	if err := ctx.Err(); err != nil {
		return zero, "", err
	}

	return zero, "", fmt.Errorf("no region of %v answered: %w", regions, apierrors.ErrNotFound)
}
