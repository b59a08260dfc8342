package domain

// Category groups catalog technologies on the selection page.
type Category string

const (
	CategoryLanguages Category = "Languages"
	CategoryFrontend  Category = "Frontend"
	CategoryBackend   Category = "Backend"
	CategoryDatabases Category = "Databases"
	CategoryDevOps    Category = "DevOps"
)

// Categories lists the catalog categories in display order.
var Categories = []Category{
	CategoryLanguages,
	CategoryFrontend,
	CategoryBackend,
	CategoryDatabases,
	CategoryDevOps,
}

// Tech is a technology from the fixed catalog. The set is closed: every value
// has an entry in techTable, so Icon and Name never fail at runtime.
type Tech uint8

const (
	TechJavaScript Tech = iota
	TechTypeScript
	TechPython
	TechGo
	TechJava
	TechRust
	TechCSharp
	TechPHP
	TechRuby
	TechReact
	TechVue
	TechAngular
	TechSvelte
	TechNextJS
	TechNodeJS
	TechExpress
	TechDjango
	TechFlask
	TechSpringBoot
	TechDotNet
	TechLaravel
	TechMongoDB
	TechPostgreSQL
	TechMySQL
	TechRedis
	TechSQLite
	TechDocker
	TechKubernetes
	TechGit
	TechTerraform
	TechNginx

	techCount
)

type techInfo struct {
	name     string
	category Category
	icon     string
	versions []string
}

var techTable = [techCount]techInfo{
	TechJavaScript: {"JavaScript", CategoryLanguages, "si-javascript", []string{"ES2024", "ES2022", "ES2020"}},
	TechTypeScript: {"TypeScript", CategoryLanguages, "si-typescript", []string{"5.6", "5.4", "5.0"}},
	TechPython:     {"Python", CategoryLanguages, "si-python", []string{"3.13", "3.12", "3.11", "3.10"}},
	TechGo:         {"Go", CategoryLanguages, "si-go", []string{"1.23", "1.22", "1.21"}},
	TechJava:       {"Java", CategoryLanguages, "fa-java", []string{"21", "17", "11"}},
	TechRust:       {"Rust", CategoryLanguages, "si-rust", []string{"1.82", "1.80", "1.75"}},
	TechCSharp:     {"C#", CategoryLanguages, "si-csharp", []string{"12", "11", "10"}},
	TechPHP:        {"PHP", CategoryLanguages, "si-php", []string{"8.3", "8.2", "8.1"}},
	TechRuby:       {"Ruby", CategoryLanguages, "si-ruby", []string{"3.3", "3.2", "3.1"}},
	TechReact:      {"React", CategoryFrontend, "fa-react", []string{"19", "18", "17"}},
	TechVue:        {"Vue.js", CategoryFrontend, "fa-vuejs", []string{"3.5", "3.4", "2.7"}},
	TechAngular:    {"Angular", CategoryFrontend, "fa-angular", []string{"18", "17", "16"}},
	TechSvelte:     {"Svelte", CategoryFrontend, "si-svelte", []string{"5", "4", "3"}},
	TechNextJS:     {"Next.js", CategoryFrontend, "si-nextdotjs", []string{"15", "14", "13"}},
	TechNodeJS:     {"Node.js", CategoryBackend, "fa-node-js", []string{"22", "20", "18"}},
	TechExpress:    {"Express", CategoryBackend, "si-express", []string{"5", "4"}},
	TechDjango:     {"Django", CategoryBackend, "si-django", []string{"5.1", "5.0", "4.2"}},
	TechFlask:      {"Flask", CategoryBackend, "si-flask", []string{"3.0", "2.3"}},
	TechSpringBoot: {"Spring Boot", CategoryBackend, "si-springboot", []string{"3.3", "3.2", "2.7"}},
	TechDotNet:     {".NET", CategoryBackend, "si-dotnet", []string{"8", "7", "6"}},
	TechLaravel:    {"Laravel", CategoryBackend, "fa-laravel", []string{"11", "10", "9"}},
	TechMongoDB:    {"MongoDB", CategoryDatabases, "si-mongodb", []string{"8.0", "7.0", "6.0"}},
	TechPostgreSQL: {"PostgreSQL", CategoryDatabases, "si-postgresql", []string{"17", "16", "15"}},
	TechMySQL:      {"MySQL", CategoryDatabases, "si-mysql", []string{"8.4", "8.0"}},
	TechRedis:      {"Redis", CategoryDatabases, "si-redis", []string{"7.4", "7.2", "6.2"}},
	TechSQLite:     {"SQLite", CategoryDatabases, "si-sqlite", []string{"3.46", "3.45"}},
	TechDocker:     {"Docker", CategoryDevOps, "fa-docker", []string{"27", "26", "25"}},
	TechKubernetes: {"Kubernetes", CategoryDevOps, "si-kubernetes", []string{"1.31", "1.30", "1.29"}},
	TechGit:        {"Git", CategoryDevOps, "fa-git-alt", []string{"2.47", "2.46", "2.45"}},
	TechTerraform:  {"Terraform", CategoryDevOps, "si-terraform", []string{"1.9", "1.8", "1.7"}},
	TechNginx:      {"Nginx", CategoryDevOps, "si-nginx", []string{"1.27", "1.26"}},
}

// techByName indexes techTable for parsing input at the boundary.
var techByName = func() map[string]Tech {
	m := make(map[string]Tech, techCount)
	for t := Tech(0); t < techCount; t++ {
		m[techTable[t].name] = t
	}
	return m
}()

// LookupTech finds a catalog technology by its display name.
func LookupTech(name string) (Tech, bool) {
	t, ok := techByName[name]
	return t, ok
}

// AllTechs returns every catalog technology in declaration order.
func AllTechs() []Tech {
	techs := make([]Tech, 0, techCount)
	for t := Tech(0); t < techCount; t++ {
		techs = append(techs, t)
	}
	return techs
}

// TechsIn returns the catalog technologies of a category.
func TechsIn(c Category) []Tech {
	var techs []Tech
	for t := Tech(0); t < techCount; t++ {
		if techTable[t].category == c {
			techs = append(techs, t)
		}
	}
	return techs
}

func (t Tech) Name() string       { return techTable[t].name }
func (t Tech) Category() Category { return techTable[t].category }
func (t Tech) Icon() string       { return techTable[t].icon }
func (t Tech) Versions() []string { return techTable[t].versions }
func (t Tech) String() string     { return t.Name() }
func (t Tech) Item() StackItem    { return StackItem{Name: t.Name(), Version: LatestVersion} }

// HasVersion reports whether v is offered for t. The latest sentinel always is.
func (t Tech) HasVersion(v string) bool {
	if v == LatestVersion {
		return true
	}
	for _, known := range techTable[t].versions {
		if known == v {
			return true
		}
	}
	return false
}

// Preset is a well-known combination of catalog technologies.
type Preset struct {
	Name  string
	Techs []Tech
}

// Presets are offered as one-click selections.
var Presets = []Preset{
	{Name: "MERN", Techs: []Tech{TechMongoDB, TechExpress, TechReact, TechNodeJS}},
	{Name: "MEAN", Techs: []Tech{TechMongoDB, TechExpress, TechAngular, TechNodeJS}},
	{Name: "LAMP", Techs: []Tech{TechPHP, TechMySQL, TechNginx}},
	{Name: "Django", Techs: []Tech{TechPython, TechDjango, TechPostgreSQL}},
	{Name: "Spring", Techs: []Tech{TechJava, TechSpringBoot, TechPostgreSQL}},
	{Name: "Go", Techs: []Tech{TechGo, TechPostgreSQL, TechRedis, TechDocker}},
}

// CatalogTech is the JSON form of a catalog technology.
type CatalogTech struct {
	Name     string   `json:"name"`
	Category Category `json:"category"`
	Icon     string   `json:"icon"`
	Versions []string `json:"versions"`
}

// CatalogPreset is the JSON form of a preset.
type CatalogPreset struct {
	Name  string   `json:"name"`
	Techs []string `json:"techs"`
}

// CatalogResponse is the response body of the catalog endpoint.
type CatalogResponse struct {
	Categories []Category      `json:"categories"`
	Techs      []CatalogTech   `json:"techs"`
	Presets    []CatalogPreset `json:"presets"`
}

// Catalog returns the JSON form of the whole catalog.
func Catalog() CatalogResponse {
	resp := CatalogResponse{Categories: Categories}
	for _, t := range AllTechs() {
		resp.Techs = append(resp.Techs, CatalogTech{
			Name:     t.Name(),
			Category: t.Category(),
			Icon:     t.Icon(),
			Versions: t.Versions(),
		})
	}
	for _, p := range Presets {
		cp := CatalogPreset{Name: p.Name}
		for _, t := range p.Techs {
			cp.Techs = append(cp.Techs, t.Name())
		}
		resp.Presets = append(resp.Presets, cp)
	}
	return resp
}
