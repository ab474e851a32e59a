package rooms

// DefaultPalette is the fixed set of member colors handed out on join.
var DefaultPalette = []string{
	"#e6194b", // red
	"#3cb44b", // green
	"#4363d8", // blue
	"#f58231", // orange
	"#911eb4", // purple
	"#46b8b0", // teal
	"#f032e6", // magenta
	"#9a6324", // brown
	"#808000", // olive
	"#000075", // navy
}

// assignColor returns the first palette color not currently in use. When the
// palette is exhausted it falls back to palette[memberCount mod len], which
// can collide with an already-assigned color: distinct colors are a soft
// guarantee, not an invariant.
func assignColor(palette []string, inUse map[string]struct{}, memberCount int) string {
	for _, color := range palette {
		if _, used := inUse[color]; !used {
			return color
		}
	}
	return palette[memberCount%len(palette)]
}
