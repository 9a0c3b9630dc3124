package directory

// Sample is a canned directory entry shown blurred behind the locked
// overlay, so visitors without access see the shape of what they are
// missing without any real data leaking.
type Sample struct {
	ID        string `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Company   string `json:"company"`
	Location  string `json:"location"`
	Industry  string `json:"industry"`
	Function  string `json:"function"`
	Review    string `json:"review"`
}

// Samples returns the fixed preview entries for denied directory requests.
func Samples() []Sample {
	return []Sample{
		{
			ID:        "sample-1",
			FirstName: "Sarah",
			LastName:  "Chen",
			Company:   "Tech Innovations Inc",
			Location:  "San Francisco, CA",
			Industry:  "Technology",
			Function:  "Engineering Manager",
			Review:    "Sarah transformed our engineering culture by implementing mentorship programs and creating a psychologically safe environment where everyone could contribute their best ideas. She consistently advocated for her team's professional development and career growth.",
		},
		{
			ID:        "sample-2",
			FirstName: "Michael",
			LastName:  "Rodriguez",
			Company:   "Global Marketing Solutions",
			Location:  "New York, NY",
			Industry:  "Marketing",
			Function:  "Creative Director",
			Review:    "Michael has an incredible ability to balance creative vision with practical business needs. He empowers his team to take creative risks while providing the support and guidance needed to deliver exceptional results. His leadership style brings out the best in everyone.",
		},
		{
			ID:        "sample-3",
			FirstName: "Jennifer",
			LastName:  "Thompson",
			Company:   "Healthcare Partners",
			Location:  "Chicago, IL",
			Industry:  "Healthcare",
			Function:  "Operations Manager",
			Review:    "Jennifer leads with empathy and strategic thinking. During challenging times, she maintained team morale while driving operational excellence. She's the kind of manager who remembers your personal goals and actively helps you achieve them.",
		},
		{
			ID:        "sample-4",
			FirstName: "David",
			LastName:  "Park",
			Company:   "Financial Advisors Group",
			Location:  "Boston, MA",
			Industry:  "Finance",
			Function:  "Senior Director",
			Review:    "David's approach to leadership is both inspiring and practical. He sets clear expectations while giving his team the autonomy to innovate. His door is always open, and he genuinely cares about both professional development and work-life balance.",
		},
		{
			ID:        "sample-5",
			FirstName: "Lisa",
			LastName:  "Williams",
			Company:   "Education Excellence",
			Location:  "Austin, TX",
			Industry:  "Education",
			Function:  "Program Manager",
			Review:    "Lisa has a unique talent for seeing potential in people and helping them realize it. She creates opportunities for growth, provides constructive feedback, and celebrates team achievements. Working for her was a career-defining experience.",
		},
		{
			ID:        "sample-6",
			FirstName: "Robert",
			LastName:  "Johnson",
			Company:   "Manufacturing Solutions",
			Location:  "Detroit, MI",
			Industry:  "Manufacturing",
			Function:  "Plant Manager",
			Review:    "Robert combines strong operational leadership with genuine care for his people. He implemented safety improvements, streamlined processes, and created a culture where everyone felt valued and heard. His leadership style is both effective and inspiring.",
		},
	}
}
