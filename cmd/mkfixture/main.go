// mkfixture writes a deterministic JSON-lines file of synthetic assessment
// requests covering every classification branch, for demos and load tests.
// Usage: go run ./cmd/mkfixture --out testdata/assessments.jsonl --rows 500 --seed 7
package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"math/rand/v2"
	"os"
	"strconv"

	"github.com/google/uuid"

	"github.com/Efenterprise/serene-care-flow-sub003/internal/engine"
	"github.com/Efenterprise/serene-care-flow-sub003/internal/model"
)

// fixtureNamespace keeps generated ids stable across runs with the same seed.
var fixtureNamespace = uuid.MustParse("6f1c2b7e-3d4a-5e8f-9a0b-1c2d3e4f5a6b")

type profile struct {
	name   string
	weight int
	build  func(r *rand.Rand, a *model.Assessment) (minutes int)
}

var profiles = []profile{
	{name: "rehab", weight: 35, build: buildRehab},
	{name: "special_care", weight: 15, build: buildSpecialCare},
	{name: "behavior", weight: 10, build: buildBehavior},
	{name: "reduced_function", weight: 30, build: buildReducedFunction},
	{name: "messy", weight: 10, build: buildMessy},
}

func main() {
	out := flag.String("out", "testdata/assessments.jsonl", "output JSON-lines file")
	rows := flag.Int("rows", 200, "number of requests to generate")
	seed := flag.Uint64("seed", 1, "random seed")
	residents := flag.Int("residents", 50, "distinct resident ids")
	flag.Parse()

	if *rows <= 0 || *residents <= 0 {
		fmt.Fprintln(os.Stderr, "--rows and --residents must be positive")
		os.Exit(1)
	}

	r := rand.New(rand.NewPCG(*seed, *seed^0x9e3779b97f4a7c15))

	f, err := os.Create(*out)
	if err != nil {
		fmt.Fprintf(os.Stderr, "create output: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()
	w := bufio.NewWriter(f)
	enc := json.NewEncoder(w)

	totalWeight := 0
	for _, p := range profiles {
		totalWeight += p.weight
	}

	counts := make(map[string]int)
	for i := 0; i < *rows; i++ {
		p := pick(r, totalWeight)
		a := model.Assessment{
			AssessmentID:  uuid.NewSHA1(fixtureNamespace, []byte(fmt.Sprintf("%d/%d", *seed, i))),
			ResidentID:    fmt.Sprintf("res-%04d", r.IntN(*residents)),
			ReferenceDate: fmt.Sprintf("2024%02d%02d", 1+r.IntN(12), 1+r.IntN(28)),
			Reason:        "05",
			Sections:      map[model.SectionID]model.Section{},
		}
		minutes := p.build(r, &a)
		req := engine.Request{Assessment: a, TherapyMinutes: minutes}
		if err := enc.Encode(req); err != nil {
			fmt.Fprintf(os.Stderr, "encode row %d: %v\n", i, err)
			os.Exit(1)
		}
		counts[p.name]++
	}
	if err := w.Flush(); err != nil {
		fmt.Fprintf(os.Stderr, "flush: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Wrote %d requests to %s\n", *rows, *out)
	fmt.Println("Profile distribution:")
	for _, p := range profiles {
		fmt.Printf("  %-18s %d\n", p.name, counts[p.name])
	}
}

func pick(r *rand.Rand, total int) profile {
	n := r.IntN(total)
	for _, p := range profiles {
		if n < p.weight {
			return p
		}
		n -= p.weight
	}
	return profiles[len(profiles)-1]
}

// adl fills Section G with item codes summing to roughly target.
func adl(r *rand.Rand, a *model.Assessment, target int) {
	items := make(map[string]any, len(model.ADLItems))
	for _, it := range model.ADLItems {
		v := min(target, 4)
		if v > 0 {
			v = r.IntN(v + 1)
		}
		target -= v
		items[it.Code] = strconv.Itoa(v)
	}
	a.Sections[model.SectionG] = model.Section{Completed: true, Items: items}
}

func buildRehab(r *rand.Rand, a *model.Assessment) int {
	adl(r, a, r.IntN(17))
	return 150 + r.IntN(700)
}

func buildSpecialCare(r *rand.Rand, a *model.Assessment) int {
	adl(r, a, r.IntN(33))
	cond := model.ComplexConditions[r.IntN(len(model.ComplexConditions))]
	if r.IntN(2) == 0 {
		a.Sections[model.SectionI] = model.Section{Completed: true, Items: map[string]any{
			model.ActiveDiagnosesItem: []any{cond},
		}}
	} else {
		a.Sections[model.SectionJ] = model.Section{Completed: true, Items: map[string]any{cond: true}}
	}
	return r.IntN(150)
}

func buildBehavior(r *rand.Rand, a *model.Assessment) int {
	adl(r, a, r.IntN(20))
	items := make(map[string]any, len(model.BehaviorItems))
	for _, it := range model.BehaviorItems {
		items[it.Code] = strconv.Itoa(1 + r.IntN(3))
	}
	a.Sections[model.SectionE] = model.Section{Completed: true, Items: items}
	return r.IntN(150)
}

func buildReducedFunction(r *rand.Rand, a *model.Assessment) int {
	adl(r, a, r.IntN(33))
	return 0
}

// buildMessy produces values the scorers must coerce.
func buildMessy(r *rand.Rand, a *model.Assessment) int {
	a.Sections[model.SectionG] = model.Section{Completed: false, Items: map[string]any{
		"G0110A": "7",
		"g0110b": "-",
		"g0110c": 2.5,
		"g0110h": "3",
	}}
	a.Sections[model.SectionE] = model.Section{Items: map[string]any{"e0800": "n/a"}}
	return r.IntN(800)
}
