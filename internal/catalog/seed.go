package catalog

import "learnhub/internal/models"

// SeedCourses returns the built-in course list the catalog starts with.
func SeedCourses() []*models.Course {
	return []*models.Course{
		{
			ID:            "course1",
			Name:          "Visual Learners: Intro to Algebra",
			Description:   "A course focusing on visual aids for understanding algebraic concepts. Learn about variables, equations, and basic algebraic operations through engaging videos and interactive simulations.",
			LearningStyle: models.LearningStyleVisual,
			Category:      "Mathematics",
			Difficulty:    models.DifficultyBeginner,
			Modules: []*models.CourseModule{
				{ID: "mod1_vid", Type: models.ModuleVideo, Title: "Understanding Variables", URL: "https://www.youtube.com/embed/WZdZhuUSmpM", Description: "A short video explaining the concept of variables in algebra with visual examples.", EstimatedDuration: "10 mins"},
				{ID: "mod1_ex", Type: models.ModuleInteractiveExercise, Title: "Algebra Tiles Simulation", URL: "https://example.com/algebra-tiles", Description: "Practice algebraic concepts using virtual algebra tiles.", EstimatedDuration: "25 mins"},
				{ID: "mod1_read", Type: models.ModuleReadingMaterial, Title: "Key Algebraic Terms", Content: "# Key Terms\n\n- **Variable**: A symbol (usually a letter) that represents a number.\n- **Equation**: A statement that two expressions are equal.\n- **Coefficient**: A numerical or constant quantity placed before and multiplying the variable in an algebraic expression (e.g., *4* in 4x y).", EstimatedDuration: "15 mins"},
				{ID: "mod_ar_1", Type: models.ModuleARInteractiveLab, Title: "AR Equation Balancer", URL: "https://phet.colorado.edu/en/simulation/equation-grapher", Description: "Balance chemical equations in an augmented reality environment.", EstimatedDuration: "30 mins"},
			},
		},
		{
			ID:            "course2",
			Name:          "Auditory Learners: History of Science",
			Description:   "Explore the fascinating history of scientific discoveries through engaging podcasts and audio lectures. This course is perfect for those who learn best by listening.",
			LearningStyle: models.LearningStyleAuditory,
			Category:      "Science",
			Difficulty:    models.DifficultyIntermediate,
			Modules: []*models.CourseModule{
				{ID: "mod2_aud", Type: models.ModuleAudio, Title: "Podcast: The Scientific Revolution", URL: "https://example.com/podcast-revolution", Description: "Listen to a podcast discussing the major figures and events of the Scientific Revolution.", EstimatedDuration: "40 mins"},
				{ID: "mod2_vid", Type: models.ModuleVideo, Title: "Animated Timeline of Discoveries", URL: "https://www.youtube.com/embed/YvtCLceNf30", Description: "A visually engaging animated timeline of key scientific discoveries throughout history.", EstimatedDuration: "20 mins"},
				{ID: "mod2_read", Type: models.ModuleReadingMaterial, Title: "Biographies of Famous Scientists (Text for TTS)", Content: "## Notable Scientists\n\n- **Isaac Newton**: Developed laws of motion and universal gravitation.\n- **Marie Curie**: Pioneer in radioactivity research and the first woman to win a Nobel Prize.", EstimatedDuration: "30 mins"},
			},
		},
		{
			ID:            "course3",
			Name:          "Kinesthetic Learning: Basics of Programming",
			Description:   "Get hands-on with programming fundamentals. This course uses interactive exercises and coding challenges to teach you the basics of Python.",
			LearningStyle: models.LearningStyleKinesthetic,
			Category:      "Computer Science",
			Difficulty:    models.DifficultyBeginner,
			Modules: []*models.CourseModule{
				{ID: "mod3_vid", Type: models.ModuleVideo, Title: "What is Programming? (Engaging Explanation)", URL: "https://www.youtube.com/embed/zOjov-2OZ0E", Description: "An engaging video that explains what programming is, suitable for absolute beginners.", EstimatedDuration: "12 mins"},
				{ID: "mod3_ex", Type: models.ModuleInteractiveExercise, Title: "Python Code Playground: Variables & Data Types", URL: "https://example.com/python-playground1", Description: "Practice Python syntax for variables and data types in an interactive playground.", EstimatedDuration: "45 mins"},
				{ID: "mod3_ar", Type: models.ModuleARInteractiveLab, Title: "AR Algorithm Visualizer", URL: "https://visualgo.net/en", Description: "Visualize common algorithms in augmented reality to understand their step-by-step execution.", EstimatedDuration: "35 mins"},
			},
		},
		{
			ID:            "course4",
			Name:          "Advanced AR Chemistry Lab",
			Description:   "Dive deep into chemical reactions and molecular structures with advanced AR interactive laboratory simulations. Perfect for hands-on virtual experiments.",
			LearningStyle: models.LearningStyleVisual,
			Category:      "Science",
			Difficulty:    models.DifficultyAdvanced,
			Modules: []*models.CourseModule{
				{ID: "mod4_vid", Type: models.ModuleVideo, Title: "Introduction to AR Lab Safety", URL: "https://www.youtube.com/embed/Qi3h18wJJiI", Description: "Learn about safety protocols when working with AR chemistry labs.", EstimatedDuration: "10 mins"},
				{ID: "mod4_ar1", Type: models.ModuleARInteractiveLab, Title: "AR Titration Experiment", URL: "https://example.com/ar-titration", Description: "Perform a virtual titration experiment in augmented reality.", EstimatedDuration: "50 mins"},
				{ID: "mod4_ar2", Type: models.ModuleARInteractiveLab, Title: "AR Molecular Building", URL: "https://example.com/ar-molecules", Description: "Build and inspect molecular structures in an interactive AR environment.", EstimatedDuration: "45 mins"},
				{ID: "mod4_read", Type: models.ModuleReadingMaterial, Title: "Lab Report Guidelines", Content: "Your lab reports should follow standard scientific formatting...", EstimatedDuration: "20 mins"},
			},
		},
		{
			ID:            "course5",
			Name:          "Physics Explorations with AR",
			Description:   "Explore fundamental physics concepts using interactive AR simulations.",
			LearningStyle: models.LearningStyleKinesthetic,
			Category:      "Physics",
			Difficulty:    models.DifficultyIntermediate,
			Modules: []*models.CourseModule{
				{ID: "mod5_ar1", Type: models.ModuleARInteractiveLab, Title: "AR Electric Fields Explorer", URL: "https://ophysics.com/electricity.html", Description: "Visualize and interact with electric fields in AR.", EstimatedDuration: "40 mins"},
				{ID: "mod5_ar2", Type: models.ModuleARInteractiveLab, Title: "AR Free Body Diagrams", URL: "https://www.physicsclassroom.com/Physics-Interactives/Newtons-Laws/Free-Body-Diagram/Free-Body-Diagram-Interactive", Description: "Construct and analyze free body diagrams in an AR environment.", EstimatedDuration: "35 mins"},
			},
		},
		{
			ID:            "course6",
			Name:          "Signal Processing with AR",
			Description:   "Understand complex signal processing concepts like Fourier series through AR visualization.",
			LearningStyle: models.LearningStyleVisual,
			Category:      "Engineering",
			Difficulty:    models.DifficultyAdvanced,
			Modules: []*models.CourseModule{
				{ID: "mod6_ar1", Type: models.ModuleARInteractiveLab, Title: "AR Fourier Simulator", URL: "https://www.falstad.com/fourier/", Description: "Simulate and visualize Fourier series in augmented reality.", EstimatedDuration: "50 mins"},
			},
		},
	}
}
