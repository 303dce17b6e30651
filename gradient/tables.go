package gradient

const Default = "turbo"

var (
	Turbo = mustTable(
		"#30123b", "#493eaf", "#446aee", "#3295f7",
		"#26bde1", "#29ddbb", "#40f392", "#66fd6d",
		"#96fa50", "#c6eb3b", "#eed02d", "#ffab24",
		"#ff801d", "#ee5415", "#c92d0c", "#a11202",
		"#7a0403",
	)

	Viridis = mustTable(
		"#440154", "#472c7a", "#3b518b", "#2c718e", "#21908d",
		"#27ad81", "#5cc863", "#aadc32", "#fde725",
	)

	Magma = mustTable(
		"#000004", "#1c1044", "#4f127b", "#812581", "#b5367a",
		"#e55964", "#fb8761", "#fec287", "#fcfdbf",
	)

	Inferno = mustTable(
		"#000004", "#1f0c48", "#550f6d", "#88226a", "#ba3655",
		"#e35933", "#f98e09", "#f9cb35", "#fcffa4",
	)

	Greyscale = mustTable("#000000", "#ffffff")
)

func init() {
	Register("turbo", Turbo)
	Register("viridis", Viridis)
	Register("magma", Magma)
	Register("inferno", Inferno)
	Register("greyscale", Greyscale)
}
