package display

// DetailLevel grades a cosmetic subsystem (background, textures).
type DetailLevel int

const (
	DetailLow DetailLevel = iota
	DetailMedium
	DetailHigh
)

// String returns the detail level name.
func (d DetailLevel) String() string {
	switch d {
	case DetailLow:
		return "low"
	case DetailMedium:
		return "medium"
	case DetailHigh:
		return "high"
	default:
		return "unknown"
	}
}

// QualitySettings is the full set of render-quality knobs derived from a
// performance tier. Exactly one instance is active at a time; on a tier
// change it is replaced wholesale, never partially mutated, so concurrent
// readers always see a complete value.
type QualitySettings struct {
	Tier              Tier
	ParticleBudget    int     // > 0
	RenderScale       float64 // in (0, 1]
	TargetFPS         int     // > 0
	EffectsEnabled    bool
	AntiAliasing      bool
	BackgroundQuality DetailLevel
	TextureQuality    DetailLevel
}

// SettingsFor maps a performance tier to its quality settings. It is a
// pure, total, deterministic table: every tier value yields a fully
// populated settings struct, and the primary axes (particle budget, render
// scale, target FPS) never regress moving low -> medium -> high.
// Unrecognized tier values fall back to the medium row.
func SettingsFor(tier Tier) QualitySettings {
	switch tier {
	case TierLow:
		return QualitySettings{
			Tier:              TierLow,
			ParticleBudget:    30,
			RenderScale:       0.75,
			TargetFPS:         30,
			EffectsEnabled:    false,
			AntiAliasing:      false,
			BackgroundQuality: DetailLow,
			TextureQuality:    DetailLow,
		}
	case TierHigh:
		return QualitySettings{
			Tier:              TierHigh,
			ParticleBudget:    400,
			RenderScale:       1.0,
			TargetFPS:         60,
			EffectsEnabled:    true,
			AntiAliasing:      true,
			BackgroundQuality: DetailHigh,
			TextureQuality:    DetailHigh,
		}
	default:
		return QualitySettings{
			Tier:              TierMedium,
			ParticleBudget:    120,
			RenderScale:       1.0,
			TargetFPS:         45,
			EffectsEnabled:    true,
			AntiAliasing:      false,
			BackgroundQuality: DetailMedium,
			TextureQuality:    DetailMedium,
		}
	}
}

// Adjust produces new settings a number of tiers below the current ones.
// It only ever moves toward TierLow: a non-negative delta returns the
// current settings unchanged, so a runtime downgrade (triggered by
// sustained frame drops) can never silently upgrade quality. Recovering a
// higher tier requires an explicit re-profile. This asymmetry prevents
// tier oscillation under a load that hovers around a threshold.
func Adjust(current QualitySettings, delta int) QualitySettings {
	if delta >= 0 {
		return current
	}
	target := current.Tier + Tier(delta)
	if target < TierLow {
		target = TierLow
	}
	if target == current.Tier {
		return current
	}
	return SettingsFor(target)
}
