package profiles

// ProfileViewOutput for GET /profiles/{username}
type ProfileViewOutput struct {
	Body ProfileView
}

// TemplateGetOutput for GET /templates/{slug}
type TemplateGetOutput struct {
	Body Template
}
