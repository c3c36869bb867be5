// Package catalog maps course labels to the vector-index namespaces that
// hold their materials. The catalog lives in a YAML file next to the
// config so courses can be added without a rebuild.
package catalog

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// Course is one entry in the catalog: a course label plus the namespaces
// carrying its indexed materials. Namespace order is retrieval order.
type Course struct {
	Name       string   `yaml:"name"`
	Namespaces []string `yaml:"namespaces"`
}

// Catalog is the full course -> namespaces lookup table.
type Catalog struct {
	Courses []Course `yaml:"courses"`
}

// Load reads a catalog from the given YAML file.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog %s: %w", path, err)
	}

	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parsing catalog %s: %w", path, err)
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}
	return &c, nil
}

// Save writes the catalog to the given YAML file path.
func (c *Catalog) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling catalog: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing catalog to %s: %w", path, err)
	}
	return nil
}

// Validate checks the catalog for duplicate courses and empty entries.
func (c *Catalog) Validate() error {
	seen := make(map[string]bool, len(c.Courses))
	for _, course := range c.Courses {
		if course.Name == "" {
			return fmt.Errorf("course with empty name")
		}
		if seen[course.Name] {
			return fmt.Errorf("duplicate course %q", course.Name)
		}
		seen[course.Name] = true
		if len(course.Namespaces) == 0 {
			return fmt.Errorf("course %q has no namespaces", course.Name)
		}
	}
	return nil
}

// CourseNames returns the course labels in catalog order.
func (c *Catalog) CourseNames() []string {
	names := make([]string, len(c.Courses))
	for i, course := range c.Courses {
		names[i] = course.Name
	}
	return names
}

// Namespaces returns the namespaces of the named course, in catalog
// order, or an error if the course is unknown.
func (c *Catalog) Namespaces(course string) ([]string, error) {
	for _, entry := range c.Courses {
		if entry.Name == course {
			return append([]string(nil), entry.Namespaces...), nil
		}
	}
	return nil, fmt.Errorf("unknown course %q", course)
}

// AllNamespaces returns every namespace across all courses, deduplicated
// and sorted.
func (c *Catalog) AllNamespaces() []string {
	seen := make(map[string]bool)
	var all []string
	for _, course := range c.Courses {
		for _, ns := range course.Namespaces {
			if seen[ns] {
				continue
			}
			seen[ns] = true
			all = append(all, ns)
		}
	}
	sort.Strings(all)
	return all
}

// Default returns a starter catalog with one example course. The init
// wizard writes this shape for the user to extend.
func Default() *Catalog {
	return &Catalog{
		Courses: []Course{
			{
				Name: "INFO 2950",
				Namespaces: []string{
					"INFO 2950 Syllabus",
					"INFO 2950 Lecture 1",
					"INFO 2950 All Materials",
				},
			},
		},
	}
}
