package content

// Profile is the hero section copy.
type Profile struct {
	Name        string
	Handle      string
	Title       string
	Description string
	Tagline     string
}

// ContactInfo lists public contact channels.
type ContactInfo struct {
	Email    string
	GitHub   string
	LinkedIn string
	Twitter  string
}

// HeroCommand is typed in the hero terminal before the description appears.
const HeroCommand = "cat about.txt"

var (
	Me = Profile{
		Name:   "Ashish Bhoya",
		Handle: "ASHISH.BHOYA",
		Title:  "Software Developer",
		Description: `Crafting digital experiences in the neon-lit realm of code.
	Specializing in full-stack development with a passion for innovation.`,
		Tagline: "Building the future, one line of code at a time.",
	}

	Contacts = ContactInfo{
		Email:    "ashish@example.com",
		GitHub:   "https://github.com/11Ashish11",
		LinkedIn: "https://linkedin.com/in/ashishbhoya",
		Twitter:  "https://x.com/56Bhoya",
	}

	// LoadingMessages rotate on the loading screen.
	LoadingMessages = []string{
		"INITIALIZING CYBER MATRIX...",
		"LOADING NEURAL NETWORKS...",
		"DECRYPTING PORTFOLIO DATA...",
		"ESTABLISHING SECURE CONNECTION...",
		"BOOTING CYBERPUNK INTERFACE...",
		"LOADING COMPLETE!",
	}
)
