package signup

import "github.com/Reginald-Ch/konov-spark-learn-sub000/internal/model"

const (
	msgName  = "Please enter your name (at least 2 characters)."
	msgEmail = "Please enter a valid email address."
	msgPhone = "Please enter a valid phone number."
	msgURL   = "Please enter a valid URL (starting with http:// or https://)."
)

var Newsletter = Schema{
	Name:  "newsletter",
	Table: model.TableNewsletterSignups,
	Fields: []Field{
		{Name: "email", Label: "Email", Rule: "email,max=254", Required: true, Message: msgEmail},
		{Name: "name", Label: "Name", Rule: "min=2,max=100", Message: msgName},
	},
	Track:           true,
	SuccessMessage:  "Thanks for subscribing! Watch your inbox for news from Spark.",
	ConflictMessage: "You're already subscribed to our newsletter.",
}

var Contact = Schema{
	Name:  "contact",
	Table: model.TableContactSubmissions,
	Fields: []Field{
		{Name: "name", Label: "Name", Rule: "min=2,max=100", Required: true, Message: msgName},
		{Name: "email", Label: "Email", Rule: "email,max=254", Required: true, Message: msgEmail},
		{Name: "phone", Label: "Phone", Rule: "min=7,max=20", Message: msgPhone},
		{Name: "subject", Label: "Subject", Rule: "max=200", Message: "Subject must be at most 200 characters."},
		{Name: "message", Label: "Message", Rule: "min=10,max=2000", Required: true, Message: "Please write a message of at least 10 characters."},
	},
	SuccessMessage:  "Thanks for reaching out! We'll get back to you soon.",
	ConflictMessage: "We already have this message.",
}

var ProgramRegistration = Schema{
	Name:  "program_registration",
	Table: model.TableProgramRegistrations,
	Fields: []Field{
		{Name: "parent_name", Label: "Parent name", Rule: "min=2,max=100", Required: true, Message: "Please enter the parent's or guardian's name."},
		{Name: "email", Label: "Email", Rule: "email,max=254", Required: true, Message: msgEmail},
		{Name: "phone", Label: "Phone", Rule: "min=7,max=20", Required: true, Message: msgPhone},
		{Name: "child_name", Label: "Child name", Rule: "min=2,max=100", Required: true, Message: "Please enter your child's name."},
		{Name: "child_age", Label: "Child age", Kind: KindInt, Rule: "min=4,max=18", Required: true, Message: "Child's age must be between 4 and 18."},
		{Name: "program", Label: "Program", Rule: "min=2,max=100", Required: true, Message: "Please choose a program."},
		{Name: "session_id", Label: "Session", Rule: "max=64", Message: "Please choose a valid session."},
		{Name: "message", Label: "Message", Rule: "max=2000", Message: "Message must be at most 2000 characters."},
	},
	Track:           true,
	SuccessMessage:  "Registration received! We'll email you the next steps.",
	ConflictMessage: "This child is already registered for the program.",
}

var WorkshopRegistration = Schema{
	Name:  "workshop_registration",
	Table: model.TableWorkshopRegistrations,
	Fields: []Field{
		{Name: "workshop_id", Label: "Workshop", Rule: "max=64", Required: true, Message: "Please choose a workshop."},
		{Name: "name", Label: "Name", Rule: "min=2,max=100", Required: true, Message: msgName},
		{Name: "email", Label: "Email", Rule: "email,max=254", Required: true, Message: msgEmail},
		{Name: "phone", Label: "Phone", Rule: "min=7,max=20", Message: msgPhone},
		{Name: "child_age", Label: "Child age", Kind: KindInt, Rule: "min=4,max=18", Message: "Child's age must be between 4 and 18."},
	},
	Track:           true,
	SuccessMessage:  "You're booked in! See you at the workshop.",
	ConflictMessage: "This email is already registered for the workshop.",
}

// HackathonRegistration expects the hackathon id as a fixed column.
var HackathonRegistration = Schema{
	Name:  "hackathon_registration",
	Table: model.TableHackathonRegistrations,
	Fields: []Field{
		{Name: "name", Label: "Name", Rule: "min=2,max=100", Required: true, Message: msgName},
		{Name: "email", Label: "Email", Rule: "email,max=254", Required: true, Message: msgEmail},
		{Name: "phone", Label: "Phone", Rule: "min=7,max=20", Message: msgPhone},
		{Name: "age", Label: "Age", Kind: KindInt, Rule: "min=6,max=18", Message: "Participants must be between 6 and 18 years old."},
		{Name: "team_id", Label: "Team", Rule: "max=64", Message: "Please choose a valid team."},
		{Name: "looking_for_team", Label: "Looking for a team", Kind: KindBool, Default: false, Message: "Please say whether you are looking for a team."},
	},
	Track:           true,
	SuccessMessage:  "You're registered! Get ready to hack.",
	ConflictMessage: "You're already registered for this hackathon.",
}

// HackathonTeam expects the hackathon id as a fixed column.
var HackathonTeam = Schema{
	Name:  "hackathon_team",
	Table: model.TableHackathonTeams,
	Fields: []Field{
		{Name: "name", Label: "Team name", Rule: "min=3,max=50", Required: true, Message: "Team name must be between 3 and 50 characters."},
		{Name: "description", Label: "Description", Rule: "max=500", Message: "Description must be at most 500 characters."},
		{Name: "creator_email", Label: "Your email", Rule: "email,max=254", Required: true, Message: msgEmail},
	},
	SuccessMessage:  "Team created! Share the name with your teammates.",
	ConflictMessage: "That team name is already taken for this hackathon.",
}

// HackathonSubmission expects the hackathon id as a fixed column.
var HackathonSubmission = Schema{
	Name:  "hackathon_submission",
	Table: model.TableHackathonSubmissions,
	Fields: []Field{
		{Name: "team_id", Label: "Team", Rule: "max=64", Required: true, Message: "Please choose your team."},
		{Name: "project_name", Label: "Project name", Rule: "min=3,max=100", Required: true, Message: "Project name must be between 3 and 100 characters."},
		{Name: "description", Label: "Description", Rule: "min=20,max=2000", Required: true, Message: "Please describe your project in at least 20 characters."},
		{Name: "demo_url", Label: "Demo URL", Rule: "http_url", Message: msgURL},
		{Name: "repo_url", Label: "Repository URL", Rule: "http_url", Message: msgURL},
		{Name: "video_url", Label: "Video URL", Rule: "http_url", Message: msgURL},
		{Name: "technologies", Label: "Technologies", Rule: "max=300", Message: "Technologies must be at most 300 characters."},
	},
	SuccessMessage:  "Project submitted! Good luck, hackers.",
	ConflictMessage: "Your team has already submitted a project for this hackathon.",
}

// leadForms are the variants the public signup endpoint accepts. The
// hackathon variants need context (hackathon id, capacity checks) and go
// through the hackathon service instead.
var leadForms = map[string]Schema{
	Newsletter.Name:           Newsletter,
	Contact.Name:              Contact,
	ProgramRegistration.Name:  ProgramRegistration,
	WorkshopRegistration.Name: WorkshopRegistration,
}

// LeadForm returns the lead-capture schema called name.
func LeadForm(name string) (Schema, bool) {
	s, ok := leadForms[name]
	return s, ok
}
