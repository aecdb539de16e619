package abilities

import (
	"github.com/clocktower/grimoire-go/internal/game/effects"
	"github.com/clocktower/grimoire-go/internal/game/player"
	"github.com/clocktower/grimoire-go/internal/game/status"
	"go.uber.org/zap"
)

// Install attaches the passive ability effects of p's character. Passives are
// sourced by p, so a character change removes them with everything else p
// sources. It returns the installed effects.
func Install(sw effects.Switch, seating *player.Seating, p *player.Player, logger *zap.Logger) []*effects.Effect {
	if logger == nil {
		logger = zap.NewNop()
	}
	var e *effects.Effect
	switch p.Character().Name {
	case "Sailor":
		e = sailorPassive(p)
	case "Virgin":
		e = virginPassive(sw, seating, p, logger)
	default:
		return nil
	}
	return []*effects.Effect{turnOn(sw, e)}
}

// sailorPassive: the sailor can't die while functioning.
func sailorPassive(p *player.Player) *effects.Effect {
	return effects.NewBuilder("Sailor cannot die").
		From(p.ID()).
		Hidden().
		CausesWhen(status.Safe, func(e *effects.Effect) bool {
			return e.Stack().Functioning(false)
		}).
		On(p.Stack())
}

// virginPassive: the first time the virgin is nominated, if the nominator is
// a townsfolk, the nominator is executed immediately instead.
func virginPassive(sw effects.Switch, seating *player.Seating, p *player.Player, logger *zap.Logger) *effects.Effect {
	return effects.NewBuilder("Virgin").
		From(p.ID()).
		Hidden().
		OnNomination(func(e *effects.Effect, nominee, nominator effects.PlayerID) bool {
			if p.IsStatus(status.UsedAbility, false) {
				return true
			}
			turnOn(sw, p.Stack().New(effects.KindUsedAbility, p.ID()))
			if !p.Functioning(false) {
				return true
			}
			by, err := seating.Get(nominator)
			if err != nil || !by.IsStatus(status.Townsfolk, true) {
				return true
			}
			outcome := by.Execute()
			logger.Info("virgin executed nominator",
				zap.String("player_id", string(nominee)),
				zap.String("nominator", string(nominator)),
				zap.Stringer("outcome", outcome))
			return false
		}).
		On(p.Stack())
}
