package config

type EnemiesConfig struct {
	Enemies []EnemyDef `yaml:"enemies"`
}

type EnemyDef struct {
	Type         string  `yaml:"type"`
	Behavior     string  `yaml:"behavior"`
	Health       int     `yaml:"health"`
	Speed        float64 `yaml:"speed"`
	BombCooldown float64 `yaml:"bomb_cooldown"`
	MaxBombs     int     `yaml:"max_bombs"`
	FireRange    int     `yaml:"fire_range"`
	Aggression   float64 `yaml:"aggression"`
	Note         string  `yaml:"note"`
}
