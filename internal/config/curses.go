package config

type CursesConfig struct {
	Curses        []CurseDef `yaml:"curses"`
	TransferGrace float64    `yaml:"transfer_grace"`
	NormalFuse    float64    `yaml:"normal_fuse"`
}

type CurseDef struct {
	Kind     string  `yaml:"kind"`
	Duration float64 `yaml:"duration"`
	Speed    float64 `yaml:"speed"`
	Fuse     float64 `yaml:"fuse"`
	Note     string  `yaml:"note"`
}
