package roadmap

import "sync"

var (
	builtinOnce sync.Once
	builtin     *Dataset
)

// Builtin returns the hand-authored dataset shipped with the binary. It is
// constructed once; callers must treat it as read-only.
func Builtin() *Dataset {
	builtinOnce.Do(func() {
		builtin = buildBuiltin()
	})
	return builtin
}

var defaultDetails = Details{
	Description: "Master the fundamentals to build a strong base.",
	Why:         "Essential for passing technical interviews and building scalable systems.",
	Time:        "3-4 Weeks",
	Tip:         "Build at least 2 mini-projects.",
}

// with returns the shared details with the non-empty fields of d applied.
func with(d Details) Details {
	out := defaultDetails
	if d.Description != "" {
		out.Description = d.Description
	}
	if d.Why != "" {
		out.Why = d.Why
	}
	if d.Time != "" {
		out.Time = d.Time
	}
	if d.Tip != "" {
		out.Tip = d.Tip
	}
	return out
}

func node(id, label string, x, y float64, status Status, d Details) Node {
	return Node{ID: id, Label: label, Tree: Point{X: x, Y: y}, Status: status, Details: d}
}

func edges(pairs ...string) []Edge {
	out := make([]Edge, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, Edge{From: pairs[i], To: pairs[i+1]})
	}
	return out
}

func buildBuiltin() *Dataset {
	ds := &Dataset{
		Default: DefaultRole,
		Roles: []Role{
			{ID: RoleSDE, Label: "Software Engineer", Description: "Generalist"},
			{ID: RoleFrontend, Label: "Frontend Engineer", Description: "Web UI & UX"},
			{ID: RoleBackend, Label: "Backend Engineer", Description: "API & Systems"},
			{ID: RoleFullstack, Label: "Full Stack Engineer", Description: "End-to-End"},
			{ID: RoleDataAnalyst, Label: "Data Analyst", Description: "Insights & Viz"},
			{ID: RoleDataScientist, Label: "Data Scientist", Description: "Models & Stats"},
			{ID: RoleML, Label: "ML Engineer", Description: "AI Systems"},
			{ID: RoleDevOps, Label: "DevOps / Cloud", Description: "Infra & CI/CD"},
			{ID: RoleMobile, Label: "Mobile Developer", Description: "iOS & Android"},
			{ID: RoleUIUX, Label: "UI/UX Engineer", Description: "Design System"},
		},
		Graphs: make(map[RoleID]Graph),
	}

	add := func(g Graph) { ds.Graphs[g.Role] = g }

	add(Graph{
		Role: RoleSDE,
		Nodes: []Node{
			node("prog", "Prog Basics", 50, 85, StatusCompleted, defaultDetails),
			node("dsa", "DSA & Algos", 50, 70, StatusActive, with(Details{
				Description: "Arrays, Trees, Graphs, DP.",
				Why:         "Crucial for OA and technical rounds.",
			})),
			node("oop", "OOPs", 30, 55, StatusPending, defaultDetails),
			node("db", "DBMS", 70, 55, StatusPending, defaultDetails),
			node("os", "OS & Networks", 50, 40, StatusLocked, defaultDetails),
			node("sys", "System Design", 50, 20, StatusLocked, defaultDetails),
		},
		Edges: edges("prog", "dsa", "dsa", "oop", "dsa", "db", "oop", "os", "db", "os", "os", "sys"),
	})

	add(Graph{
		Role: RoleFrontend,
		Nodes: []Node{
			node("htmlcss", "HTML & CSS", 50, 85, StatusCompleted, with(Details{
				Description: "Semantic HTML and modern CSS Layouts (Flexbox/Grid).",
				Time:        "2 Weeks",
			})),
			node("js", "JavaScript (ES6+)", 30, 70, StatusActive, with(Details{
				Description: "Async/Await, DOM manipulation, Closures.",
				Why:         "The language of the web.",
				Time:        "4-6 Weeks",
			})),
			node("react", "React.js", 70, 55, StatusPending, with(Details{
				Description: "Components, Hooks, State Management.",
				Time:        "6 Weeks",
			})),
			node("perf", "Performance", 40, 40, StatusLocked, defaultDetails),
			node("a11y", "Accessibility", 80, 35, StatusLocked, defaultDetails),
			node("system", "Frontend System Design", 50, 15, StatusLocked, defaultDetails),
		},
		Edges: edges("htmlcss", "js", "js", "react", "react", "perf", "react", "a11y", "perf", "system", "a11y", "system"),
	})

	add(Graph{
		Role: RoleBackend,
		Nodes: []Node{
			node("lang", "Java / Python", 50, 85, StatusCompleted, defaultDetails),
			node("db", "Databases (SQL)", 25, 70, StatusActive, defaultDetails),
			node("api", "REST APIs", 75, 70, StatusActive, defaultDetails),
			node("auth", "Auth (JWT/OAuth)", 50, 50, StatusPending, defaultDetails),
			node("cache", "Caching (Redis)", 30, 30, StatusLocked, defaultDetails),
			node("scale", "Scalability", 60, 15, StatusLocked, defaultDetails),
		},
		Edges: edges("lang", "db", "lang", "api", "db", "auth", "api", "auth", "auth", "cache", "cache", "scale"),
	})

	add(Graph{
		Role: RoleFullstack,
		Nodes: []Node{
			node("web", "Web Fundamentals", 50, 85, StatusCompleted, with(Details{
				Description: "HTML, CSS and JavaScript in the browser.",
				Time:        "3 Weeks",
			})),
			node("react", "React.js", 30, 68, StatusActive, with(Details{
				Description: "Component-driven UIs with hooks and routing.",
			})),
			node("node", "Node.js & Express", 70, 68, StatusActive, with(Details{
				Description: "HTTP servers, middleware and REST endpoints.",
			})),
			node("sql", "SQL & ORMs", 70, 50, StatusPending, defaultDetails),
			node("deploy", "Deployment", 40, 35, StatusLocked, with(Details{
				Description: "Containers, environments and a CI pipeline.",
			})),
			node("arch", "App Architecture", 55, 15, StatusLocked, defaultDetails),
		},
		Edges: edges("web", "react", "web", "node", "node", "sql", "react", "deploy", "sql", "deploy", "deploy", "arch"),
	})

	add(Graph{
		Role: RoleDataAnalyst,
		Nodes: []Node{
			node("excel", "Spreadsheets", 50, 85, StatusCompleted, with(Details{
				Description: "Pivot tables, lookups and cleaning data by hand.",
				Time:        "2 Weeks",
			})),
			node("sql", "SQL Querying", 30, 70, StatusActive, with(Details{
				Description: "Joins, window functions, aggregations.",
				Why:         "Every analyst interview has a SQL round.",
			})),
			node("stats", "Statistics", 70, 70, StatusPending, defaultDetails),
			node("viz", "Dashboards & Viz", 35, 50, StatusPending, with(Details{
				Description: "Tableau / Power BI dashboards that answer a question.",
			})),
			node("pandas", "Python & Pandas", 65, 40, StatusLocked, defaultDetails),
			node("story", "Data Storytelling", 50, 18, StatusLocked, defaultDetails),
		},
		Edges: edges("excel", "sql", "excel", "stats", "sql", "viz", "stats", "pandas", "viz", "story", "pandas", "story"),
	})

	add(Graph{
		Role: RoleDataScientist,
		Nodes: []Node{
			node("python", "Python", 50, 85, StatusCompleted, defaultDetails),
			node("stats", "Probability & Stats", 30, 70, StatusActive, with(Details{
				Description: "Distributions, hypothesis tests, Bayesian thinking.",
			})),
			node("wrangling", "Data Wrangling", 70, 70, StatusPending, defaultDetails),
			node("ml", "Classical ML", 50, 52, StatusPending, with(Details{
				Description: "Regression, trees, ensembles and validation.",
				Time:        "6 Weeks",
			})),
			node("dl", "Deep Learning", 35, 32, StatusLocked, defaultDetails),
			node("deploy", "Model Deployment", 65, 16, StatusLocked, defaultDetails),
		},
		Edges: edges("python", "stats", "python", "wrangling", "stats", "ml", "wrangling", "ml", "ml", "dl", "dl", "deploy"),
	})

	add(Graph{
		Role: RoleML,
		Nodes: []Node{
			node("python", "Python", 50, 85, StatusCompleted, defaultDetails),
			node("linalg", "Linear Algebra", 30, 70, StatusCompleted, defaultDetails),
			node("mlbasics", "ML Foundations", 70, 68, StatusActive, with(Details{
				Description: "Loss functions, gradient descent, overfitting.",
			})),
			node("dl", "Deep Learning", 50, 52, StatusPending, with(Details{
				Description: "CNNs, transformers and training loops in PyTorch.",
				Time:        "8 Weeks",
			})),
			node("mlops", "MLOps", 35, 32, StatusLocked, defaultDetails),
			node("llm", "LLM Systems", 65, 18, StatusLocked, defaultDetails),
		},
		Edges: edges("python", "linalg", "python", "mlbasics", "linalg", "dl", "mlbasics", "dl", "dl", "mlops", "dl", "llm"),
	})

	add(Graph{
		Role: RoleDevOps,
		Nodes: []Node{
			node("linux", "Linux & Shell", 50, 85, StatusCompleted, defaultDetails),
			node("scripting", "Scripting", 30, 70, StatusCompleted, defaultDetails),
			node("docker", "Containers", 70, 68, StatusActive, with(Details{
				Description: "Images, layers, compose files.",
				Why:         "Everything ships in a container now.",
			})),
			node("cicd", "CI/CD Pipelines", 40, 52, StatusPending, defaultDetails),
			node("k8s", "Kubernetes", 68, 38, StatusLocked, defaultDetails),
			node("iac", "Infrastructure as Code", 50, 18, StatusLocked, with(Details{
				Description: "Terraform modules and reviewable infra changes.",
			})),
		},
		Edges: edges("linux", "scripting", "linux", "docker", "scripting", "cicd", "docker", "cicd", "docker", "k8s", "k8s", "iac", "cicd", "iac"),
	})

	add(Graph{
		Role: RoleMobile,
		Nodes: []Node{
			node("lang", "Kotlin / Swift", 50, 85, StatusCompleted, defaultDetails),
			node("ui", "Native UI", 30, 70, StatusActive, with(Details{
				Description: "Jetpack Compose / SwiftUI layouts and navigation.",
			})),
			node("state", "State Management", 70, 68, StatusPending, defaultDetails),
			node("net", "Networking", 45, 50, StatusPending, defaultDetails),
			node("storage", "Offline Storage", 70, 35, StatusLocked, defaultDetails),
			node("release", "App Store Release", 50, 15, StatusLocked, with(Details{
				Description: "Signing, review guidelines and staged rollouts.",
			})),
		},
		Edges: edges("lang", "ui", "lang", "state", "ui", "net", "state", "net", "net", "storage", "storage", "release"),
	})

	add(Graph{
		Role: RoleUIUX,
		Nodes: []Node{
			node("principles", "Design Principles", 50, 85, StatusCompleted, defaultDetails),
			node("figma", "Figma", 30, 70, StatusActive, with(Details{
				Description: "Auto layout, components and variants.",
			})),
			node("research", "User Research", 70, 70, StatusPending, defaultDetails),
			node("systems", "Design Systems", 50, 52, StatusPending, with(Details{
				Description: "Tokens, component libraries and documentation.",
			})),
			node("a11y", "Accessibility", 30, 32, StatusLocked, defaultDetails),
			node("handoff", "Design to Code", 65, 18, StatusLocked, defaultDetails),
		},
		Edges: edges("principles", "figma", "principles", "research", "figma", "systems", "research", "systems", "systems", "a11y", "systems", "handoff"),
	})

	add(sampleGraph())
	return ds
}

// sampleGraph is the showcase map: a student profile branching into three
// monthly phases. Edges come from parent references.
func sampleGraph() Graph {
	sample := func(id, parent, label string, kind Kind, status Status, phase string, x, y, tx, ty float64, desc string, skills []string, outcome string) Node {
		return Node{
			ID:       id,
			Label:    label,
			Tree:     Point{X: x, Y: y},
			Timeline: &Point{X: tx, Y: ty},
			Status:   status,
			Kind:     kind,
			Parent:   parent,
			Phase:    phase,
			Details:  Details{Description: desc, Skills: skills, Outcome: outcome},
		}
	}
	g := Graph{
		Role: RoleSample,
		Nodes: []Node{
			sample("root", "", "Student Profile", KindRoot, StatusActive, "", 50, 80, 10, 50,
				"Year 2 Student, Aiming for SDE roles.", []string{"Time: 2-3 hrs/day"}, "Foundation Set"),
			sample("b1", "root", "Core Skills", KindBranch, StatusCompleted, "Month 1", 20, 55, 25, 30,
				"Building the technical bedrock.", []string{"Logic", "Syntax"}, "Problem Solving"),
			sample("b1-1", "b1", "DSA Basics", KindLeaf, StatusCompleted, "", 10, 40, 25, 70,
				"Arrays & Strings mastery", []string{"Java/C++"}, "LeetCode Easy"),
			sample("b1-2", "b1", "Adv. Algorithms", KindLeaf, StatusLocked, "", 25, 35, 40, 30,
				"DP & Graphs", []string{"Optimization"}, "LeetCode Hard"),
			sample("b2", "root", "Projects", KindBranch, StatusActive, "Month 2", 50, 50, 55, 50,
				"Applying theory to reality.", []string{"React", "Node"}, "Portfolio Piece"),
			sample("b2-1", "b2", "Personal Site", KindLeaf, StatusCompleted, "", 40, 30, 55, 20,
				"Showcase yourself", []string{"HTML/CSS"}, "Live URL"),
			sample("b2-2", "b2", "Full Stack App", KindLeaf, StatusActive, "", 60, 30, 70, 50,
				"E-commerce Clone", []string{"DB Design", "API"}, "Complex System"),
			sample("b3", "root", "Placement Prep", KindBranch, StatusLocked, "Month 3", 80, 55, 85, 50,
				"Cracking the interview.", []string{"Mock Interviews"}, "Job Offer"),
			sample("b3-1", "b3", "Resume", KindLeaf, StatusLocked, "", 75, 40, 85, 20,
				"ATS Optimization", []string{"Writing"}, "Shortlists"),
			sample("b3-2", "b3", "System Design", KindLeaf, StatusLocked, "", 90, 35, 95, 50,
				"Scalability", []string{"Load Balancing"}, "L5 Level"),
		},
	}
	return g.Normalize()
}
