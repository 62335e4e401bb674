package consistentthis

import (
	"ngthis/packages/compiler/src/render3"
)

// scope collects the template-local names of one template. It only grows:
// names declared in a nested template stay visible after that template ends.
type scope struct {
	variables  map[string]struct{}
	references map[string]struct{}
}

func newScope() *scope {
	return &scope{
		variables:  map[string]struct{}{},
		references: map[string]struct{}{},
	}
}

// enterTemplate records the variables and references declared on template
func (s *scope) enterTemplate(template *render3.Template) {
	for _, v := range template.Variables {
		s.variables[v.Name] = struct{}{}
	}
	for _, ref := range template.References {
		s.references[ref.Name] = struct{}{}
	}
}

// enterElement records the references declared on element
func (s *scope) enterElement(element *render3.Element) {
	for _, ref := range element.References {
		s.references[ref.Name] = struct{}{}
	}
}

func (s *scope) isVariable(name string) bool {
	_, ok := s.variables[name]
	return ok
}

func (s *scope) isReference(name string) bool {
	_, ok := s.references[name]
	return ok
}
