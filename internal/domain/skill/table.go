package skill

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type TableEntry struct {
	Canonical string   `yaml:"canonical"`
	Category  Category `yaml:"category"`
	Aliases   []string `yaml:"aliases"`
}

type Table []TableEntry

type tableFile struct {
	Skills Table `yaml:"skills"`
}

// LoadTableYAML reads a replacement alias table. The file lists entries under a
// top-level "skills" key; an entry without a category is technical.
func LoadTableYAML(path string) (Table, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read alias table: %w", err)
	}
	return ParseTableYAML(b)
}

func ParseTableYAML(b []byte) (Table, error) {
	var f tableFile
	if err := yaml.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("parse alias table: %w", err)
	}
	for i := range f.Skills {
		if f.Skills[i].Category == "" {
			f.Skills[i].Category = CategoryTechnical
		}
		if !f.Skills[i].Category.Valid() {
			return nil, fmt.Errorf("parse alias table: skill %q has unknown category %q", f.Skills[i].Canonical, f.Skills[i].Category)
		}
	}
	return f.Skills, nil
}

func DefaultTable() Table {
	tech := func(name string, aliases ...string) TableEntry {
		return TableEntry{Canonical: name, Category: CategoryTechnical, Aliases: aliases}
	}
	soft := func(name string, aliases ...string) TableEntry {
		return TableEntry{Canonical: name, Category: CategorySoft, Aliases: aliases}
	}

	return Table{
		tech("python", "python", "py"),
		tech("java", "java"),
		tech("c++", "c++", "cpp"),
		tech("sql", "sql", "structured query language", "postgres", "postgresql", "mysql"),
		tech("html", "html", "html5"),
		tech("css", "css", "cascading style sheets"),
		tech("javascript", "javascript", "js", "node js", "node.js"),
		tech("react", "react", "reactjs", "react.js"),
		tech("node.js", "node.js", "node", "nodejs"),
		tech("tensorflow", "tensorflow", "tf"),
		tech("pytorch", "pytorch", "torch"),
		tech("machine learning", "machine learning", "ml"),
		tech("data analysis", "data analysis", "data analytics", "analytics"),
		tech("data visualization", "data visualization", "dataviz", "visualization"),
		tech("aws", "aws", "amazon web services"),
		tech("azure", "azure", "microsoft azure"),
		tech("gcp", "gcp", "google cloud", "google cloud platform"),
		tech("power bi", "power bi", "powerbi"),
		tech("tableau", "tableau"),
		tech("django", "django"),
		tech("flask", "flask"),
		tech("scikit-learn", "scikit-learn", "scikitlearn", "sklearn"),
		tech("nlp", "nlp", "natural language processing"),

		soft("communication", "communication", "communicate"),
		soft("leadership", "leadership", "lead"),
		soft("teamwork", "teamwork", "team work", "team-player"),
		soft("problem solving", "problem solving", "problem-solving", "problem solving skills"),
		soft("time management", "time management", "time-management"),
		soft("adaptability", "adaptability", "adaptable"),
		soft("critical thinking", "critical thinking", "critical-thinking"),
		soft("creativity", "creativity", "creative"),
		soft("collaboration", "collaboration", "collaborate"),
		soft("decision making", "decision making", "decision-making"),
	}
}
