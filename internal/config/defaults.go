package config

// Default returns a configuration populated with repository defaults. Paths
// are filled in during normalize so tests can override DataDir first.
func Default() Config {
	return Config{
		YouTube: YouTube{
			BaseURL: "https://www.googleapis.com/youtube/v3",
		},
		Captions: Captions{
			BaseURL:  "https://video.google.com/timedtext",
			Language: "en",
		},
		OAuth: OAuth{
			TokenURL: "https://oauth2.googleapis.com/token",
		},
		LLM: LLM{
			BaseURL:        "https://api.openai.com/v1",
			Model:          "gpt-4o-mini",
			TimeoutSeconds: 120,
		},
		Pacing: Pacing{
			ReadDelayMS:  500,
			WriteDelayMS: 1000,
		},
		Post: Post{
			Category: "Videos",
		},
		Logging: Logging{
			Format: "console",
			Level:  "info",
		},
	}
}
