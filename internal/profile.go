package internal

import "net/url"

// DefaultAvatarBaseURL is the image service used for avatar URLs.
const DefaultAvatarBaseURL = "https://api.dicebear.com/9.x/big-smile/svg"

// Profile is a roster entry derived from a display name.
type Profile struct {
	Name      string
	AvatarURL string
}

// AvatarURL builds the display URL for seed. An empty base uses
// DefaultAvatarBaseURL.
func AvatarURL(base, seed string) string {
	if base == "" {
		base = DefaultAvatarBaseURL
	}
	return base + "?seed=" + url.QueryEscape(seed)
}

// ProfilesFromRoster builds one profile per name, keeping order and
// duplicates.
func ProfilesFromRoster(base string, names []string) []Profile {
	profiles := make([]Profile, 0, len(names))
	for _, name := range names {
		profiles = append(profiles, Profile{Name: name, AvatarURL: AvatarURL(base, name)})
	}
	return profiles
}

// findProfile returns the roster entry for name, or a profile derived from
// the name when the sender is not in the roster.
func findProfile(profiles []Profile, base, name string) Profile {
	for _, profile := range profiles {
		if profile.Name == name {
			return profile
		}
	}
	return Profile{Name: name, AvatarURL: AvatarURL(base, name)}
}
