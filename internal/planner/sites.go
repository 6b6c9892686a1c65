package planner

import (
	"path/filepath"

	"github.com/danieljhkim/corpussplit/internal/fsops"
	"github.com/danieljhkim/corpussplit/internal/layout"
)

type caseListing struct {
	category string
	name     string
	items    []string
}

// BuildSiteSplitPlan plans copying input/<category>/<case>/ items into
// output/<site>/<category>/<case>/ for every site in spec.
//
// Items within a case are taken in name order and sliced contiguously with
// CumulativeBoundaries; nothing is shuffled, so a case's items stay grouped.
// Every site receives the full category and case skeleton. Operations are
// emitted site by site. The input tree is only read.
func BuildSiteSplitPlan(fs fsops.FS, input, output string, spec layout.SplitSpec, seed int64, filter *Filter) (*Plan, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}

	plan := NewPlan(KindSites, input, output)
	plan.Spec = spec
	plan.Seed = seed

	cases, categories, err := listCases(fs, input, filter, plan)
	if err != nil {
		return nil, err
	}

	fractions := spec.Fractions()
	for _, c := range cases {
		cov := MeasureSlack(len(c.items), SiteBoundaries(len(c.items), fractions))
		if !cov.Exact() {
			plan.Slack = append(plan.Slack, Slack{Category: c.category, Case: c.name, Coverage: cov})
		}
	}

	checker := NewConflictChecker(fs)
	for i, site := range spec.Names() {
		siteRoot := filepath.Join(output, site)
		plan.AddConflict(checker.RequireAbsent(siteRoot, site))
		plan.AddOperation(Operation{Type: OpMkdir, Dest: siteRoot, RelDest: site, Bucket: site})

		next := 0
		for _, category := range categories {
			plan.AddOperation(Operation{
				Type:     OpMkdir,
				Dest:     filepath.Join(siteRoot, category),
				RelDest:  filepath.Join(site, category),
				Category: category,
				Bucket:   site,
			})

			for ; next < len(cases) && cases[next].category == category; next++ {
				c := cases[next]
				caseRel := filepath.Join(site, c.category, c.name)
				plan.AddOperation(Operation{
					Type:     OpMkdir,
					Dest:     filepath.Join(output, caseRel),
					RelDest:  caseRel,
					Category: c.category,
					Case:     c.name,
					Bucket:   site,
				})

				r := CumulativeBoundaries(len(c.items), fractions, i)
				slice := append([]string{}, c.items[r.Start:r.End]...)
				plan.Assignments = append(plan.Assignments, Assignment{
					Category: c.category,
					Case:     c.name,
					Bucket:   site,
					Items:    slice,
				})
				for _, item := range slice {
					plan.AddOperation(Operation{
						Type:     OpCopy,
						Source:   filepath.Join(input, c.category, c.name, item),
						Dest:     filepath.Join(output, caseRel, item),
						RelDest:  filepath.Join(caseRel, item),
						Category: c.category,
						Case:     c.name,
						Item:     item,
						Bucket:   site,
					})
				}
			}
		}
	}

	return plan, nil
}

// listCases reads the two-level category/case tree once, in name order.
func listCases(fs fsops.FS, input string, filter *Filter, plan *Plan) ([]caseListing, []string, error) {
	catEntries, err := fs.ReadDir(input)
	if err != nil {
		return nil, nil, wrapListError("corpus", input, err)
	}

	var cases []caseListing
	var categories []string
	for _, cat := range catEntries {
		catPath := filepath.Join(input, cat.Name)
		if filter.Excluded(cat.Name) {
			plan.Skipped = append(plan.Skipped, cat.Name)
			continue
		}
		if !cat.IsDir {
			plan.AddConflict(&Conflict{Path: catPath, Reason: "expected a category directory, found a file"})
			continue
		}
		categories = append(categories, cat.Name)

		caseEntries, err := fs.ReadDir(catPath)
		if err != nil {
			return nil, nil, wrapListError("category", catPath, err)
		}
		for _, cs := range caseEntries {
			caseRel := filepath.Join(cat.Name, cs.Name)
			casePath := filepath.Join(input, caseRel)
			if filter.Excluded(caseRel) {
				plan.Skipped = append(plan.Skipped, caseRel)
				continue
			}
			if !cs.IsDir {
				plan.AddConflict(&Conflict{Path: casePath, Reason: "expected a case directory, found a file"})
				continue
			}

			itemEntries, err := fs.ReadDir(casePath)
			if err != nil {
				return nil, nil, wrapListError("case", casePath, err)
			}
			items := make([]string, 0, len(itemEntries))
			for _, it := range itemEntries {
				rel := filepath.Join(caseRel, it.Name)
				if filter.Excluded(rel) {
					plan.Skipped = append(plan.Skipped, rel)
					continue
				}
				items = append(items, it.Name)
			}
			cases = append(cases, caseListing{category: cat.Name, name: cs.Name, items: items})
		}
	}
	return cases, categories, nil
}
