package icons

import "strings"

// Glyph — иконка каталога.
type Glyph struct {
	Title string
	Slug  string
	Hex   string
}

type Entry struct {
	Key   string
	Glyph Glyph
}

// Catalog — источник иконок со своей схемой ключей. Entries обязан
// возвращать записи в одном и том же порядке.
type Catalog interface {
	Key(normalized string) string
	Lookup(key string) (Glyph, bool)
	Entries() []Entry
	PayloadName(key string) string
}

// simpleIcons — каталог с ключами вида "si" + Capitalize(name).
type simpleIcons struct {
	entries []Entry
	index   map[string]int
}

// SimpleIcons возвращает встроенный каталог.
func SimpleIcons() Catalog {
	c := &simpleIcons{index: make(map[string]int, len(simpleIconGlyphs))}
	for _, g := range simpleIconGlyphs {
		key := c.Key(g.Slug)
		c.index[key] = len(c.entries)
		c.entries = append(c.entries, Entry{Key: key, Glyph: g})
	}
	return c
}

func (c *simpleIcons) Key(normalized string) string {
	if normalized == "" {
		return ""
	}
	return "si" + strings.ToUpper(normalized[:1]) + normalized[1:]
}

func (c *simpleIcons) Lookup(key string) (Glyph, bool) {
	i, ok := c.index[key]
	if !ok {
		return Glyph{}, false
	}
	return c.entries[i].Glyph, true
}

func (c *simpleIcons) Entries() []Entry { return c.entries }

func (c *simpleIcons) PayloadName(key string) string {
	return strings.ToLower(strings.TrimPrefix(key, "si"))
}

// Порядок — алфавитный по slug, как в исходном каталоге.
var simpleIconGlyphs = []Glyph{
	{"Amazon Web Services", "amazonwebservices", "FF9900"},
	{"Android", "android", "3DDC84"},
	{"Angular", "angular", "DD0031"},
	{"Ansible", "ansible", "EE0000"},
	{"Apache Kafka", "apachekafka", "231F20"},
	{"Bootstrap", "bootstrap", "7952B3"},
	{"C++", "cplusplus", "00599C"},
	{"CSS3", "css3", "1572B6"},
	{"Dart", "dart", "0175C2"},
	{"Django", "django", "092E20"},
	{"Docker", "docker", "2496ED"},
	{"Express", "express", "000000"},
	{"Figma", "figma", "F24E1E"},
	{"Firebase", "firebase", "FFCA28"},
	{"Flutter", "flutter", "02569B"},
	{"Git", "git", "F05032"},
	{"GitHub", "github", "181717"},
	{"GitHub Actions", "githubactions", "2088FF"},
	{"Go", "go", "00ADD8"},
	{"Google Cloud", "googlecloud", "4285F4"},
	{"GraphQL", "graphql", "E10098"},
	{"HTML5", "html5", "E34F26"},
	{"Java", "java", "007396"},
	{"JavaScript", "javascript", "F7DF1E"},
	{"Jest", "jest", "C21325"},
	{"Kotlin", "kotlin", "7F52FF"},
	{"Kubernetes", "kubernetes", "326CE5"},
	{"Linux", "linux", "FCC624"},
	{"MongoDB", "mongodb", "47A248"},
	{"MySQL", "mysql", "4479A1"},
	{"Next.js", "nextdotjs", "000000"},
	{"Nginx", "nginx", "009639"},
	{"Node.js", "nodedotjs", "339933"},
	{"PHP", "php", "777BB4"},
	{"PostgreSQL", "postgresql", "4169E1"},
	{"Python", "python", "3776AB"},
	{"React", "react", "61DAFB"},
	{"Redis", "redis", "DC382D"},
	{"Rust", "rust", "000000"},
	{"Sass", "sass", "CC6699"},
	{"Supabase", "supabase", "3FCF8E"},
	{"Swift", "swift", "F05138"},
	{"Tailwind CSS", "tailwindcss", "06B6D4"},
	{"Terraform", "terraform", "844FBA"},
	{"TypeScript", "typescript", "3178C6"},
	{"Vercel", "vercel", "000000"},
	{"Vite", "vite", "646CFF"},
	{"Vue.js", "vuedotjs", "4FC08D"},
}
