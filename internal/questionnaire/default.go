package questionnaire

var defaultQuestions = []Question{
	{
		ID:      "q1_environment",
		Text:    "What does your ideal work environment look like?",
		SubText: "Pick the one you feel most comfortable in",
		Type:    SingleChoice,
		Options: []string{
			"Structured and stable: clear hierarchy, processes and promotion paths (government, large state companies)",
			"Fast and flexible: constant change, challenge and uncertainty (startups, internet companies)",
			"Independent and free: own schedule, remote collaboration (freelance, digital nomad)",
			"Creative and open: flat management, inspiration and exchange of ideas (design studios, agencies)",
		},
	},
	{
		ID:   "q2_team_role",
		Text: "Which role do you usually take in a team?",
		Type: SingleChoice,
		Options: []string{
			"Leader: sets goals, drives progress, makes the final call",
			"Harmonizer: cares about people, resolves conflicts, keeps the team together",
			"Specialist: focuses on their own area and delivers high quality work",
			"Idea engine: keeps proposing new ideas and breaks conventions, not always the one to ship them",
		},
	},
	{
		ID:   "q3_achievement",
		Text: "What gives you the strongest sense of achievement at work?",
		Type: SingleChoice,
		Options: []string{
			"Helping: directly solving other people's problems or improving their wellbeing",
			"Cracking problems: solving hard technical or logical puzzles",
			"Influence: leading a team to an ambitious business goal",
			"Creating: expressing myself through work (code, design, writing)",
		},
	},
	{
		ID:   "q4_problem_solving",
		Text: "Facing a tough problem you have never seen before, your first move is to",
		Type: SingleChoice,
		Options: []string{
			"Break it down: collect data, find the root cause, plan the steps",
			"Act first: experiment and find the solution in practice",
			"Ask for help: find an expert or look for similar cases",
			"Brainstorm: gather the team and pool ideas",
		},
	},
	{
		ID:            "q5_skills",
		Text:          "Which 3-5 abilities are you best at?",
		SubText:       "Pick your core strengths",
		Type:          MultiChoice,
		MaxSelections: 5,
		Options: []string{
			"Logical analysis", "Communication", "Creative design", "Programming",
			"Project management", "Public speaking", "Data processing", "Empathic listening",
			"Sales and negotiation", "Strategic planning", "Hands-on work", "Fast learning",
			"Resource integration", "Attention to detail", "Writing", "Cross-domain thinking",
		},
	},
	{
		ID:   "q6_learning",
		Text: "Which way of learning a new skill works best for you?",
		Type: SingleChoice,
		Options: []string{
			"Learning by doing: start a project and look things up when stuck",
			"Systematic study: books, documentation or a complete course",
			"Observation: watch how others do it and imitate",
			"Discussion: understand by asking questions and talking it through",
		},
	},
	{
		ID:      "q7_values",
		Text:    "What do you value most in a career?",
		SubText: "The core driver behind your choice of work",
		Type:    SingleChoice,
		Options: []string{
			"High salary and financial reward",
			"Work-life balance",
			"Social impact and changing the world",
			"Depth and reputation in a professional field",
			"Creative freedom and self-expression",
		},
	},
	{
		ID:       "q8_decision_style",
		Text:     "How do you make important decisions?",
		SubText:  "1 = purely rational data analysis, 5 = purely gut feeling",
		Type:     Rating,
		MinLabel: "Strictly rational",
		MaxLabel: "Intuition driven",
	},
	{
		ID:       "q9_risk",
		Text:     "How much career risk can you tolerate?",
		SubText:  "1 = job for life, 5 = high risk for high reward",
		Type:     Rating,
		MinLabel: "Very conservative",
		MaxLabel: "Very adventurous",
	},
	{
		ID:   "q10_stress",
		Text: "How do you usually perform under high pressure and a fast pace?",
		Type: SingleChoice,
		Options: []string{
			"Energized: pressure sharpens my focus",
			"Calm: I shut out distractions and work step by step",
			"Anxious: I get tense and need time to adjust",
			"Overwhelmed: I lose track and need guidance",
		},
	},
	{
		ID:      "q11_work_focus",
		Text:    "What do you prefer to work with?",
		SubText: "This shapes the core of your daily work",
		Type:    SingleChoice,
		Options: []string{
			"Data and logic: charts, algorithms, financial statements, processes",
			"People and emotions: clients, teams, students, user experience",
			"Things and tools: machines, hardware, models, equipment",
			"Abstract ideas: theory, creativity, strategy, macro trends",
		},
	},
	{
		ID:   "q12_project_stage",
		Text: "Which stage of a product do you prefer to work on?",
		Type: SingleChoice,
		Options: []string{
			"0 to 1: creating something from nothing, full of unknowns (founding, research)",
			"1 to 10: rapid expansion, growth and market share (sales, growth)",
			"10 to N: optimizing processes for efficiency and stability (operations, finance, maintenance)",
		},
	},
	{
		ID:   "q13_detail_orientation",
		Text: "When working on a task your attention goes to",
		Type: SingleChoice,
		Options: []string{
			"Big picture: overall direction and architecture, not the small stuff",
			"Perfect execution: every pixel and every indentation",
			"Pragmatic balance: keep the schedule, focus on what matters",
		},
	},
	{
		ID:   "q14_communication_style",
		Text: "Which way of communicating do you prefer?",
		Type: SingleChoice,
		Options: []string{
			"Written and async: clear documents and emails",
			"Spoken and live: meetings and calls with quick exchanges",
			"Empathic: deep one-on-one conversations, reading between the lines",
		},
	},
	{
		ID:   "q15_motivation",
		Text: "What usually drives you forward?",
		Type: SingleChoice,
		Options: []string{
			"Winning: beating competitors, hitting targets, ranking high",
			"Mastery: understanding complex principles and becoming an expert",
			"Recognition: praise and respect from managers, clients or the public",
			"Responsibility: helping others or contributing to a vision",
		},
	},
	{
		ID:   "q16_predictability",
		Text: "How do you feel about how often your work changes?",
		Type: SingleChoice,
		Options: []string{
			"I like certainty: clear duties, orderly routine",
			"I need some change: room to improve within an existing frame",
			"I embrace uncertainty: I hate repetition and want new challenges every day",
		},
	},
	{
		ID:   "q17_conflict_style",
		Text: "When the team disagrees, you usually",
		Type: SingleChoice,
		Options: []string{
			"Argue your case: fight hard for the right outcome",
			"Compromise: find a middle ground everyone accepts and move on",
			"Avoid: pause the discussion to protect relationships",
			"Integrate: step outside the conflict and find a third way that serves everyone",
		},
	},
	{
		ID:   "q18_feedback_preference",
		Text: "How would you like your manager to give you feedback?",
		Type: SingleChoice,
		Options: []string{
			"Straight to the point: name the problem and the fix",
			"Sandwich: praise first, suggest gently, end with encouragement",
			"Coaching: guide me with questions so I find the problem myself",
		},
	},
	{
		ID:   "q19_energy_source",
		Text: "After intense work, what recharges you fastest?",
		Type: SingleChoice,
		Options: []string{
			"Solitude: quiet time, reading or my own things (introvert trait)",
			"Socializing: dinner with friends, chatting, going out (extrovert trait)",
		},
	},
	{
		ID:      "q20_interests",
		Text:    "Finally, which personal interests should we take into account?",
		SubText: "For example: science fiction movies, psychology, cooking, hiking, video games...",
		Type:    FreeText,
	},
}

// Default returns the built-in 20 question career assessment.
func Default() *Catalog {
	c, err := NewCatalog(defaultQuestions)
	if err != nil {
		panic("questionnaire: invalid default catalog: " + err.Error())
	}
	return c
}
