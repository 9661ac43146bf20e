package main

type sectionText struct {
	Heading  string
	Subtitle string
}

// sectionCopy is the fixed prose around each page section. Portfolio data
// itself lives in the content file.
var sectionCopy = map[string]sectionText{
	"about": {
		Heading: "About Me",
		Subtitle: `Passionate about creating innovative solutions that make a difference.
		From real-time platforms to cloud deployments, I enjoy the whole journey from idea to production.`,
	},
	"skills": {
		Heading:  "Skills & Technologies",
		Subtitle: "The languages, frameworks and tools I reach for when building.",
	},
	"projects": {
		Heading:  "Featured Projects",
		Subtitle: "A few things I have designed, built and shipped end to end.",
	},
	"certificates": {
		Heading:  "Certifications",
		Subtitle: "Courses and programmes that sharpened my craft.",
	},
	"achievements": {
		Heading:  "Achievements",
		Subtitle: "Milestones along the way.",
	},
	"education": {
		Heading:  "Education",
		Subtitle: "Where I learned the fundamentals.",
	},
	"contact": {
		Heading: "Get In Touch",
		Subtitle: `Have a project in mind or just want to say hello?
		Drop me a message and I will get back to you soon.`,
	},
}
