package models

// VolunteerContact holds the channels a volunteer can be reached on.
type VolunteerContact struct {
	WhatsApp string `json:"whatsapp,omitempty" bson:"whatsapp,omitempty"`
	Email    string `json:"email,omitempty" bson:"email,omitempty"`
}

// VolunteerSocial holds optional social media links.
type VolunteerSocial struct {
	LinkedIn  string `json:"linkedin,omitempty" bson:"linkedin,omitempty"`
	Twitter   string `json:"twitter,omitempty" bson:"twitter,omitempty"`
	Facebook  string `json:"facebook,omitempty" bson:"facebook,omitempty"`
	Instagram string `json:"instagram,omitempty" bson:"instagram,omitempty"`
}

// Volunteer is a directory entry. Read-only reference data: there is no
// write path beyond the startup seed.
type Volunteer struct {
	ID             string           `json:"id" bson:"_id"`
	Name           string           `json:"name" bson:"name"`
	Province       string           `json:"province" bson:"province"`
	City           string           `json:"city" bson:"city"`
	Contact        VolunteerContact `json:"contact,omitempty" bson:"contact,omitempty"`
	Experience     string           `json:"experience" bson:"experience"`
	Specialization []string         `json:"specialization,omitempty" bson:"specialization,omitempty"`
	Availability   string           `json:"availability,omitempty" bson:"availability,omitempty"`
	SocialMedia    VolunteerSocial  `json:"socialMedia,omitempty" bson:"socialmedia,omitempty"`
	Bio            string           `json:"bio,omitempty" bson:"bio,omitempty"`
	AvatarURL      string           `json:"avatarUrl,omitempty" bson:"avatarurl,omitempty"`
}
