package config

type BossesConfig struct {
	Bosses  []BossDef   `yaml:"bosses"`
	Attacks []AttackDef `yaml:"attacks"`
}

// BossDef is the static, shared definition of one boss type.
type BossDef struct {
	ID             string  `yaml:"id"`
	Name           string  `yaml:"name"`
	MaxHealth      int     `yaml:"max_health"`
	Speed          float64 `yaml:"speed"`
	FireRange      int     `yaml:"fire_range"`
	EntranceDelay  float64 `yaml:"entrance_delay"`
	EnrageAfter    float64 `yaml:"enrage_after"`
	EnrageSpeedMul float64 `yaml:"enrage_speed_mul"`
	FireTrail      bool    `yaml:"fire_trail"`
	AttackCooldown float64 `yaml:"attack_cooldown"`
	ChargeRange    int     `yaml:"charge_range"`
	Phases         []Phase `yaml:"phases"`
	Note           string  `yaml:"note"`
}

// Phase activates once health percentage drops to Threshold or below.
type Phase struct {
	Threshold     float64  `yaml:"threshold"`
	SpeedMul      float64  `yaml:"speed_mul"`
	AggressionMul float64  `yaml:"aggression_mul"`
	Attacks       []string `yaml:"attacks"`
	Announce      string   `yaml:"announce"`
}

type AttackDef struct {
	ID             string  `yaml:"id"`
	Name           string  `yaml:"name"`
	Duration       float64 `yaml:"duration"`
	HazardLifetime float64 `yaml:"hazard_lifetime"`
	MinCells       int     `yaml:"min_cells"`
	MaxCells       int     `yaml:"max_cells"`
	BombRange      int     `yaml:"bomb_range"`
	EffectDuration float64 `yaml:"effect_duration"`
	Note           string  `yaml:"note"`
}
