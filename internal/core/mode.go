package core

type Mode int

const (
	ModeDev Mode = iota
	ModeProd
)

func (m Mode) String() string {
	if m == ModeDev {
		return "development"
	}
	return "production"
}
