package portfolio

// Preset returns the document a fresh editor session starts from.
func Preset() Portfolio {
	return Portfolio{
		Profile: Profile{
			Name:  "Ayub Shaban",
			Title: "Principal Architect & Urban Designer",
			Bio: "With over 15 years of experience, Ayub has led award-winning projects that blend " +
				"sustainable practices with contemporary aesthetics. His work focuses on creating spaces " +
				"that are not only visually striking but also deeply connected to their environment and community.",
			ProfileImage: "https://picsum.photos/seed/ayubshaban/400/400",
		},
		Projects: []Project{
			{
				ID:       "proj1",
				Title:    "The Serenity House",
				Category: "Residential",
				Description: "A minimalist residential project that emphasizes natural light and materials. " +
					"The design integrates the living space with the surrounding landscape, featuring large glass " +
					"panels and a central courtyard that acts as the heart of the home.",
				Images: []string{
					"https://picsum.photos/seed/project1a/800/600",
					"https://picsum.photos/seed/project1b/800/600",
					"https://picsum.photos/seed/project1c/800/600",
				},
			},
			{
				ID:       "proj2",
				Title:    "Innovatech Corporate Campus",
				Category: "Commercial",
				Description: "A state-of-the-art corporate campus designed for collaboration and innovation. " +
					"The building features flexible workspaces, green roofs, and advanced energy-efficient systems, " +
					"reflecting the forward-thinking culture of the company it houses.",
				Images: []string{
					"https://picsum.photos/seed/project2a/800/600",
					"https://picsum.photos/seed/project2b/800/600",
				},
			},
		},
		Contact: Contact{
			Email:     "ayubshaaban040@gmail.com",
			Phone:     "+254707425282",
			Website:   "www.ayubshaban.com",
			Instagram: "archneeds254",
		},
	}
}
