// Package lifecycle owns the provider status state machine: which
// phases exist, which jumps between them are legal, and the readiness
// predicates the automatic advances are based on.
package lifecycle

import (
	"github.com/openfedcloud/fedmgr/internal/models"
	appErr "github.com/openfedcloud/fedmgr/pkg/errors"
)

// transitions is the adjacency table of legal status changes.
// removed is terminal.
var transitions = map[models.ProviderStatus][]models.ProviderStatus{
	models.StatusDraft:     {models.StatusReady},
	models.StatusReady:     {models.StatusSubmitted, models.StatusDraft},
	models.StatusSubmitted: {models.StatusEvaluation, models.StatusRemoved},
	models.StatusEvaluation: {
		models.StatusPreProduction,
		models.StatusRemoved,
	},
	models.StatusPreProduction: {
		models.StatusActive,
		models.StatusEvaluation,
		models.StatusRemoved,
	},
	models.StatusActive: {
		models.StatusDeprecated,
		models.StatusDegraded,
		models.StatusMaintenance,
	},
	models.StatusDeprecated:   {models.StatusRemoved},
	models.StatusRemoved:      {},
	models.StatusDegraded:     {models.StatusRemoved, models.StatusMaintenance},
	models.StatusMaintenance:  {models.StatusReEvaluation, models.StatusRemoved},
	models.StatusReEvaluation: {models.StatusActive, models.StatusMaintenance},
}

// IsValidStatus reports whether s names a known provider status.
func IsValidStatus(s models.ProviderStatus) bool {
	_, ok := transitions[s]
	return ok
}

// CanTransition reports whether next is directly reachable from current.
func CanTransition(current, next models.ProviderStatus) bool {
	for _, s := range transitions[current] {
		if s == next {
			return true
		}
	}
	return false
}

// Check validates a requested status change and returns a typed error
// when the jump is illegal. Staying in place is not a transition.
func Check(current, next models.ProviderStatus) error {
	if !IsValidStatus(next) {
		return appErr.Newf(appErr.CodeInvalidTransition,
			"unknown provider status '%s'", next)
	}
	if !CanTransition(current, next) {
		return appErr.Newf(appErr.CodeInvalidTransition,
			"provider status cannot change from '%s' to '%s'", current, next)
	}
	return nil
}

// ProviderFacts carries the dependent-configuration counts the
// automatic advance rules look at.
type ProviderFacts struct {
	HasRootProject bool
	RootHasSLA     bool
	RegionCount    int
	IdpLinkCount   int
	TesterCount    int
}

// IsReady reports whether a provider has completed its initial
// configuration: a root project with a negotiated SLA, at least one
// region and at least one trusted identity provider.
func (f ProviderFacts) IsReady() bool {
	return f.HasRootProject && f.RootHasSLA && f.RegionCount > 0 && f.IdpLinkCount > 0
}

// CanBeEvaluated reports whether a submitted provider has testers
// assigned and may enter evaluation.
func (f ProviderFacts) CanBeEvaluated() bool {
	return f.TesterCount > 0
}

// AutoAdvance returns the status a provider should settle in given its
// current status and facts, and whether a change is due. Only three
// automatic moves exist: draft climbs to ready once configuration is
// complete, ready falls back to draft when it no longer is, and
// submitted enters evaluation once testers are assigned.
func AutoAdvance(current models.ProviderStatus, facts ProviderFacts) (models.ProviderStatus, bool) {
	switch current {
	case models.StatusDraft:
		if facts.IsReady() {
			return models.StatusReady, true
		}
	case models.StatusReady:
		if !facts.IsReady() {
			return models.StatusDraft, true
		}
	case models.StatusSubmitted:
		if facts.CanBeEvaluated() {
			return models.StatusEvaluation, true
		}
	}
	return current, false
}
