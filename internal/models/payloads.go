package models

import (
	"net/mail"
	"net/url"
	"strings"
)

// Validator реализуют все типизированные payload'ы коллекций.
type Validator interface {
	Validate() error
}

type SocialLink struct {
	Platform string `json:"platform"`
	URL      string `json:"url"`
}

type HomePayload struct {
	Headline    string       `json:"headline"`
	Tagline     string       `json:"tagline,omitempty"`
	Intro       string       `json:"intro,omitempty"`
	ResumeURL   string       `json:"resumeUrl,omitempty"`
	SocialLinks []SocialLink `json:"socialLinks,omitempty"`
}

func (p HomePayload) Validate() error {
	if strings.TrimSpace(p.Headline) == "" {
		return Validationf("headline is required")
	}
	if err := checkURL(p.ResumeURL); err != nil {
		return err
	}
	for _, l := range p.SocialLinks {
		if err := checkURL(l.URL); err != nil {
			return err
		}
	}
	return nil
}

type ExperienceItem struct {
	Company     string `json:"company"`
	Role        string `json:"role"`
	Period      string `json:"period"`
	Description string `json:"description,omitempty"`
}

type AboutPayload struct {
	Name       string           `json:"name"`
	Role       string           `json:"role,omitempty"`
	Bio        string           `json:"bio,omitempty"`
	AvatarURL  string           `json:"avatarUrl,omitempty"`
	Skills     []string         `json:"skills,omitempty"`
	Experience []ExperienceItem `json:"experience,omitempty"`
}

func (p AboutPayload) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return Validationf("name is required")
	}
	return checkURL(p.AvatarURL)
}

type AppPayload struct {
	Name         string   `json:"name"`
	Description  string   `json:"description,omitempty"`
	Platform     string   `json:"platform,omitempty"`
	StoreURL     string   `json:"storeUrl,omitempty"`
	IconURL      string   `json:"iconUrl,omitempty"`
	Screenshots  []string `json:"screenshots,omitempty"`
	Technologies []string `json:"technologies,omitempty"`
	Visible      bool     `json:"visible"`
	Order        int      `json:"order"`
}

func (p AppPayload) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return Validationf("app name is required")
	}
	for _, u := range append([]string{p.StoreURL, p.IconURL}, p.Screenshots...) {
		if err := checkURL(u); err != nil {
			return err
		}
	}
	return nil
}

type BlogPayload struct {
	Title      string   `json:"title"`
	Slug       string   `json:"slug,omitempty"`
	Excerpt    string   `json:"excerpt,omitempty"`
	Content    string   `json:"content"`
	CoverImage string   `json:"coverImage,omitempty"`
	Tags       []string `json:"tags,omitempty"`
	Date       string   `json:"date,omitempty"`
	Published  bool     `json:"published"`
}

func (p BlogPayload) Validate() error {
	if strings.TrimSpace(p.Title) == "" {
		return Validationf("blog title is required")
	}
	return checkURL(p.CoverImage)
}

type ToolPayload struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Category    string `json:"category,omitempty"`
	URL         string `json:"url,omitempty"`
	Icon        string `json:"icon,omitempty"`
	Order       int    `json:"order"`
}

func (p ToolPayload) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return Validationf("tool name is required")
	}
	return checkURL(p.URL)
}

type ContactItemPayload struct {
	Type  string `json:"type"`
	Label string `json:"label"`
	Value string `json:"value"`
	Href  string `json:"href,omitempty"`
	Icon  string `json:"icon,omitempty"`
	Order int    `json:"order"`
}

func (p ContactItemPayload) Validate() error {
	if strings.TrimSpace(p.Label) == "" || strings.TrimSpace(p.Value) == "" {
		return Validationf("contact item label and value are required")
	}
	if p.Type == "email" {
		if _, err := mail.ParseAddress(p.Value); err != nil {
			return Validationf("malformed email %q", p.Value)
		}
	}
	return nil
}

type ResponseTimePayload struct {
	Channel string `json:"channel"`
	Time    string `json:"time"`
	Order   int    `json:"order"`
}

func (p ResponseTimePayload) Validate() error {
	if strings.TrimSpace(p.Channel) == "" || strings.TrimSpace(p.Time) == "" {
		return Validationf("channel and time are required")
	}
	return nil
}

type ContactMessagePayload struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject,omitempty"`
	Message string `json:"message"`
	Read    bool   `json:"read"`
}

func (p ContactMessagePayload) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return Validationf("name is required")
	}
	if _, err := mail.ParseAddress(p.Email); err != nil {
		return Validationf("malformed email %q", p.Email)
	}
	if strings.TrimSpace(p.Message) == "" {
		return Validationf("message is required")
	}
	return nil
}

var schemas = map[string]func(Payload) (Validator, error){
	CollectionHome:            decodeAs[HomePayload],
	CollectionAbout:           decodeAs[AboutPayload],
	CollectionProjects:        decodeAs[ProjectPayload],
	CollectionApps:            decodeAs[AppPayload],
	CollectionBlogs:           decodeAs[BlogPayload],
	CollectionTools:           decodeAs[ToolPayload],
	CollectionContactItems:    decodeAs[ContactItemPayload],
	CollectionResponseTimes:   decodeAs[ResponseTimePayload],
	CollectionContactMessages: decodeAs[ContactMessagePayload],
	CollectionIconCategories:  decodeAs[IconCategoryPayload],
	CollectionCategoryIcons:   decodeAs[CategoryIconPayload],
}

func decodeAs[T Validator](p Payload) (Validator, error) {
	v, err := Decode[T](p)
	if err != nil {
		return nil, err
	}
	return v, nil
}

// KnownCollection сообщает, есть ли схема для коллекции.
func KnownCollection(collection string) bool {
	_, ok := schemas[collection]
	return ok
}

// Collections — все известные коллекции.
func Collections() []string {
	return []string{
		CollectionHome, CollectionAbout, CollectionProjects, CollectionApps,
		CollectionBlogs, CollectionTools, CollectionContactItems,
		CollectionResponseTimes, CollectionContactMessages,
		CollectionIconCategories, CollectionCategoryIcons,
	}
}

// ValidatePayload раскладывает payload в схему коллекции и проверяет его.
func ValidatePayload(collection string, p Payload) error {
	decode, ok := schemas[collection]
	if !ok {
		return Validationf("unknown collection %q", collection)
	}
	v, err := decode(p)
	if err != nil {
		return Validationf("%s: %v", collection, err)
	}
	return v.Validate()
}

// htmlFields — поля с HTML из редактора, которые чистятся перед отдачей наружу.
var htmlFields = map[string][]string{
	CollectionHome:     {"intro"},
	CollectionAbout:    {"bio", "experience.description"},
	CollectionProjects: {"summary", "content.about", "content.features", "content.challenges", "content.achievements", "content.accessibility", "developmentPipeline.description", "developmentPipeline.proTip"},
	CollectionApps:     {"description"},
	CollectionBlogs:    {"content", "excerpt"},
	CollectionTools:    {"description"},
}

// HTMLFields возвращает пути HTML-полей коллекции ("a.b"; массивы обходятся поэлементно).
func HTMLFields(collection string) []string {
	return htmlFields[collection]
}

func checkURL(raw string) error {
	if raw == "" {
		return nil
	}
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		if strings.HasPrefix(raw, "/") || strings.HasPrefix(raw, "mailto:") {
			return nil
		}
		return Validationf("malformed url %q", raw)
	}
	return nil
}
