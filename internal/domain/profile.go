package domain

// UserProfile is the locally stored student profile. It shares the
// persistence mechanism with bookmarks but has no merge logic.
type UserProfile struct {
	Name                string   `json:"name" yaml:"name"`
	ClassYear           string   `json:"classYear" yaml:"classYear"`
	Major               string   `json:"major" yaml:"major"`
	Minor               string   `json:"minor,omitempty" yaml:"minor,omitempty"`
	AreasOfInterest     []string `json:"areasOfInterest" yaml:"areasOfInterest"`
	LearningPreferences []string `json:"learningPreferences" yaml:"learningPreferences"`
}

// IsZero reports whether nothing has been filled in.
func (p UserProfile) IsZero() bool {
	return p.Name == "" && p.ClassYear == "" && p.Major == "" && p.Minor == "" &&
		len(p.AreasOfInterest) == 0 && len(p.LearningPreferences) == 0
}
