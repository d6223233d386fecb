package model

// Tables the site writes to. The schema is owned by the persistence
// collaborator; these names are the only ones the store accepts.
const (
	TableNewsletterSignups      = "newsletter_signups"
	TableContactSubmissions     = "contact_submissions"
	TableProgramRegistrations   = "program_registrations"
	TableWorkshopRegistrations  = "workshop_registrations"
	TableHackathons             = "hackathons"
	TableHackathonRegistrations = "hackathon_registrations"
	TableHackathonTeams         = "hackathon_teams"
	TableHackathonSubmissions   = "hackathon_submissions"
)
