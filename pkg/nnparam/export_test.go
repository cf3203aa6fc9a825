package nnparam

var (
	MustFill     = mustFill
	BuildDefault = buildDefault
)
