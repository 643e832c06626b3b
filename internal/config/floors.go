package config

type FloorsConfig struct {
	Floors             []FloorDef         `yaml:"floors"`
	RoomMultipliers    map[string]float64 `yaml:"room_multipliers"`
	PowerUpMultipliers map[string]float64 `yaml:"powerup_multipliers"`
	BlockChance        float64            `yaml:"block_chance"`
	MaxBlockChance     float64            `yaml:"max_block_chance"`
	PowerUpChance      float64            `yaml:"powerup_chance"`
	MaxPowerUpChance   float64            `yaml:"max_powerup_chance"`
	PowerUpWeights     []PowerUpWeight    `yaml:"powerup_weights"`
	BossOpenRadius     int                `yaml:"boss_open_radius"`
	BossObstacles      int                `yaml:"boss_obstacles"`
	RestPowerUps       []Cell             `yaml:"rest_powerups"`
	EliteChance        float64            `yaml:"elite_chance"`
	TreasureChance     float64            `yaml:"treasure_chance"`
	SpawnSafeRadius    int                `yaml:"spawn_safe_radius"`
}

type FloorDef struct {
	Floor       int           `yaml:"floor"`
	Difficulty  float64       `yaml:"difficulty"`
	Aggression  float64       `yaml:"aggression"`
	BaseEnemies int           `yaml:"base_enemies"`
	MaxEnemies  int           `yaml:"max_enemies"`
	Rooms       int           `yaml:"rooms"`
	Bosses      []string      `yaml:"bosses"`
	Enemies     []EnemyWeight `yaml:"enemies"`
	Note        string        `yaml:"note"`
}

type EnemyWeight struct {
	Type   string `yaml:"type"`
	Weight int    `yaml:"weight"`
}

type PowerUpWeight struct {
	Kind   string `yaml:"kind"`
	Weight int    `yaml:"weight"`
}

type Cell struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
}
