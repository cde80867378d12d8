package profiles

// ProfileViewInput for GET /profiles/{username}
type ProfileViewInput struct {
	Username string `path:"username" minLength:"1" maxLength:"128" doc:"Username" example:"jane"`
}

// TemplateGetInput for GET /templates/{slug}
type TemplateGetInput struct {
	Slug string `path:"slug" minLength:"1" maxLength:"128" doc:"Template slug" example:"ocean"`
}
