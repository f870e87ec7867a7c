// Command export writes the test case definitions to JSON, together with
// the apply request for each shape.  The requests can be replayed against a
// mask editor server to compare its masks with ours.
// Run from the specmask module root directory.
package main

import (
	"encoding/json"
	"maps"
	"os"
	"slices"

	"seehuhn.de/go/specmask"
	"seehuhn.de/go/specmask/testcases"
)

func main() {
	var out struct {
		TestCases []jsonTestCase `json:"testcases"`
	}

	for _, category := range slices.Sorted(maps.Keys(testcases.All)) {
		for _, tc := range testcases.All[category] {
			out.TestCases = append(out.TestCases, toJSON(category, tc))
		}
	}

	if err := os.MkdirAll("testdata", 0755); err != nil {
		panic(err)
	}
	f, err := os.Create("testdata/testcases.json")
	if err != nil {
		panic(err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		panic(err)
	}
}

type jsonTestCase struct {
	Name       string                `json:"name"`
	Width      int                   `json:"width"`
	Height     int                   `json:"height"`
	Shape      specmask.ShapeKind    `json:"shape"`
	Start      [2]float64            `json:"start"`
	End        [2]float64            `json:"end"`
	ThicknessX float64               `json:"thickness_x,omitempty"`
	ThicknessY float64               `json:"thickness_y,omitempty"`
	Area       float64               `json:"area"`
	Request    specmask.ApplyRequest `json:"request"`
}

func toJSON(category string, tc testcases.TestCase) jsonTestCase {
	name := category + "_" + tc.Name
	s := tc.Shape
	jtc := jsonTestCase{
		Name:    name,
		Width:   tc.Width,
		Height:  tc.Height,
		Shape:   s.Kind,
		Start:   [2]float64{s.Start.X, s.Start.Y},
		End:     [2]float64{s.End.X, s.End.Y},
		Area:    tc.Area(),
		Request: tc.Request(name),
	}
	if s.Kind == specmask.HollowRect || s.Kind == specmask.Ring {
		jtc.ThicknessX = s.ThicknessX
		jtc.ThicknessY = s.ThicknessY
	}
	return jtc
}
