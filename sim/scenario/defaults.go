package scenario

// Default returns the built-in scenario: the development board with two
// tasks in a single ten-tick sprint.
func Default() *Spec {
	spec := &Spec{
		Version: DefaultVersion,
		Seed:    42,
		Project: "MS",
		Board:   "Development Board",
		Sprints: []SprintSpec{
			{Name: "Sprint 1", Duration: 10},
		},
		Issues: []IssueSpec{
			{
				Summary:     "Task 24: Setup environment",
				Description: "Install dependencies and set up the development environment.",
				Estimate:    "4h",
				Sprint:      "Sprint 1",
				Work:        WorkSpec{Interval: 2, MaxPerPeriod: "2h"},
			},
			{
				Summary:     "Task 25: Implement login",
				Description: "Develop the login flow.",
				Estimate:    "20h",
				Complexity:  1.2,
				Sprint:      "Sprint 1",
				Work:        WorkSpec{Interval: 2, MaxPerPeriod: "3h", TestingDelay: 2},
			},
		},
	}
	spec.ApplyDefaults()
	return spec
}
