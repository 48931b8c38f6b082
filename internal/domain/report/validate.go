package report

import (
	"fmt"

	"github.com/bandkit/bandkit/internal/apperrors"
	"github.com/bandkit/bandkit/internal/domain/values"
)

// Validate checks the definition against its structural invariants.
// Every violation found is collected; the returned error carries the full
// list so a definition author sees all problems at once.
func (r *Report) Validate() error {
	var issues []string

	if r.Metadata.Name == "" {
		issues = append(issues, "report name is required")
	}
	if r.Metadata.Version == "" {
		issues = append(issues, "report version is required")
	}

	issues = append(issues, r.validateGroups()...)
	issues = append(issues, r.validateBands()...)
	issues = append(issues, r.validateVariables()...)
	issues = append(issues, r.validateParameters()...)
	issues = append(issues, r.validateFormatSpecs()...)

	if len(issues) > 0 {
		return apperrors.NewDefinitionError(r.Metadata.Name, issues...)
	}
	return nil
}

func (r *Report) validateGroups() []string {
	var issues []string
	seen := make(map[string]bool)
	for i, group := range r.Groups {
		if group.Name == "" {
			issues = append(issues, fmt.Sprintf("group %d: name is required", i))
		}
		if group.Key == "" {
			issues = append(issues, fmt.Sprintf("group %d (%s): key expression is required", i, group.Name))
		}
		if seen[group.Name] {
			issues = append(issues, fmt.Sprintf("duplicate group name: %s", group.Name))
		}
		seen[group.Name] = true
	}
	return issues
}

func (r *Report) validateBands() []string {
	var issues []string

	if len(r.Bands) == 0 {
		return []string{"report has no bands"}
	}

	arena := r.Flatten()
	seen := make(map[string]bool)
	hasDetail := false

	arena.Walk(func(node *BandNode) bool {
		if node.Name == "" {
			issues = append(issues, fmt.Sprintf("band %d: name is required", node.ID))
		} else if seen[node.Name] {
			issues = append(issues, fmt.Sprintf("duplicate band name: %s", node.Name))
		}
		seen[node.Name] = true

		if err := node.Kind.Validate(); err != nil {
			issues = append(issues, fmt.Sprintf("band %s: %v", node.Name, err))
			return true
		}

		if node.Kind == values.BandDetail {
			hasDetail = true
		}

		if node.Kind.IsGroupBound() {
			if node.GroupLevel < 0 {
				issues = append(issues, fmt.Sprintf("band %s: %s requires a group level", node.Name, node.Kind))
			} else if !r.groupLevelDefined(node.GroupLevel) {
				issues = append(issues, fmt.Sprintf("band %s: references undefined group level %d (report declares %d)",
					node.Name, node.GroupLevel, len(r.Groups)))
			}
		} else if node.GroupLevel >= 0 {
			issues = append(issues, fmt.Sprintf("band %s: %s bands cannot bind a group level", node.Name, node.Kind))
		}

		for i, elem := range node.Elements {
			if elem.Source == "" {
				issues = append(issues, fmt.Sprintf("band %s element %d: source is required", node.Name, i))
			}
			if elem.Format != "" && r.FormatSpecByName(elem.Format) == nil {
				issues = append(issues, fmt.Sprintf("band %s element %s: references undefined format spec %q",
					node.Name, elem.Name, elem.Format))
			}
		}
		return true
	})

	if !hasDetail {
		issues = append(issues, "report has no detail band")
	}
	return issues
}

func (r *Report) validateVariables() []string {
	var issues []string
	seen := make(map[string]bool)
	for _, v := range r.Variables {
		if v.Name == "" {
			issues = append(issues, "variable name is required")
			continue
		}
		if seen[v.Name] {
			issues = append(issues, fmt.Sprintf("duplicate variable name: %s", v.Name))
		}
		seen[v.Name] = true

		if err := v.Kind.Validate(); err != nil {
			issues = append(issues, fmt.Sprintf("variable %s: %v", v.Name, err))
		}
		if v.Kind != values.VarCount && v.Expression == "" {
			issues = append(issues, fmt.Sprintf("variable %s: expression is required for %s variables", v.Name, v.Kind))
		}
		if !r.scopeDefined(v.ResetScope) {
			issues = append(issues, fmt.Sprintf("variable %s: reset scope %s references an undefined group level",
				v.Name, v.ResetScope))
		}
	}
	return issues
}

func (r *Report) validateParameters() []string {
	var issues []string
	seen := make(map[string]bool)
	for _, p := range r.Parameters {
		if p.Name == "" {
			issues = append(issues, "parameter name is required")
			continue
		}
		if seen[p.Name] {
			issues = append(issues, fmt.Sprintf("duplicate parameter name: %s", p.Name))
		}
		seen[p.Name] = true

		if err := p.ValidateType(); err != nil {
			issues = append(issues, err.Error())
		}
	}
	return issues
}

func (r *Report) validateFormatSpecs() []string {
	var issues []string
	seen := make(map[string]bool)
	for _, spec := range r.FormatSpecs {
		if seen[spec.Name] {
			issues = append(issues, fmt.Sprintf("duplicate format spec name: %s", spec.Name))
		}
		seen[spec.Name] = true
	}
	return issues
}
