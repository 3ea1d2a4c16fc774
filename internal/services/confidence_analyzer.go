package services

import (
	"math"
	"strings"

	"github.com/oddsflow/fightline/internal/models"
)

// Confidence partitions snapshots into the configured sharp and public
// bookmaker cohorts and measures how far apart the two camps price side A.
// A book belonging to neither list simply contributes to neither cohort; an
// empty cohort reports the neutral prior.
func (a *OddsAnalyzer) Confidence(snapshots []models.OddsSnapshot) models.BookmakerConfidence {
	sharpSet := toLowerSet(a.oddsConfig.SharpBookmakers)
	publicSet := toLowerSet(a.oddsConfig.PublicBookmakers)

	var sharpSnaps, publicSnaps []models.OddsSnapshot
	for _, snap := range snapshots {
		book := strings.ToLower(snap.Sportsbook)
		if sharpSet[book] {
			sharpSnaps = append(sharpSnaps, snap)
		}
		if publicSet[book] {
			publicSnaps = append(publicSnaps, snap)
		}
	}

	sharpAvg, _, _ := a.cohortConsensus(sharpSnaps)
	publicAvg, _, _ := a.cohortConsensus(publicSnaps)

	divergence := math.Abs(sharpAvg[models.SideA] - publicAvg[models.SideA])

	return models.BookmakerConfidence{
		SharpConsensus:        sharpAvg,
		PublicConsensus:       publicAvg,
		SharpPublicDivergence: divergence,
	}
}

func toLowerSet(names []string) map[string]bool {
	set := make(map[string]bool, len(names))
	for _, name := range names {
		set[strings.ToLower(name)] = true
	}
	return set
}
