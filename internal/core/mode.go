package core

type Mode int

const (
	ModeDevelopment Mode = iota
	ModeProduction
)

func ParseMode(value string) Mode {
	if value == "production" {
		return ModeProduction
	}
	return ModeDevelopment
}

func (m Mode) String() string {
	if m == ModeProduction {
		return "production"
	}
	return "development"
}

func (m Mode) IsDev() bool {
	return m == ModeDevelopment
}
