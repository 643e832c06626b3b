package config

type MatchConfig struct {
	Width            int               `yaml:"width"`
	Height           int               `yaml:"height"`
	TickRate         int               `yaml:"tick_rate"`
	Duration         float64           `yaml:"duration"`
	RoomAdvanceDelay float64           `yaml:"room_advance_delay"`
	CountdownEvery   float64           `yaml:"countdown_every"`
	PlayerSpeed      float64           `yaml:"player_speed"`
	SuddenDeath      SuddenDeathConfig `yaml:"sudden_death"`
}

type SuddenDeathConfig struct {
	Threshold     float64 `yaml:"threshold"`
	Interval      float64 `yaml:"interval"`
	DisplayWindow float64 `yaml:"display_window"`
}
