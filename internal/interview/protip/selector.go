// Package protip maps interview questions to short coaching hints.
package protip

import "strings"

// Generic is returned when no keyword group matches
const Generic = "Structure your answer: context, what you did, and the outcome. Keep it concise and specific."

// Elaborate is shown when a follow-up asks the candidate to expand
const Elaborate = "Try to elaborate: add a concrete example, your specific role, and a measurable result."

type group struct {
	keywords []string
	tip      string
}

// groups are checked in order; the first match wins
var groups = []group{
	{
		keywords: []string{"tell me about yourself", "introduce yourself", "walk me through your background", "about you"},
		tip:      "Keep it to two minutes: present role, one or two highlights, and why this opportunity fits.",
	},
	{
		keywords: []string{"challenge", "obstacle", "difficult", "setback", "failure", "failed"},
		tip:      "Use STAR: set the Situation, define the Task, explain your Actions, and quantify the Result.",
	},
	{
		keywords: []string{"lead", "leadership", "mentor", "managed a team", "influence"},
		tip:      "Show how you aligned people: the goal, how you brought others along, and what the team achieved.",
	},
	{
		keywords: []string{"weakness", "improve", "area of growth"},
		tip:      "Pick a real weakness, show self-awareness, and describe the concrete steps you are taking to improve.",
	},
	{
		keywords: []string{"why do you want", "why this company", "why our company", "why this role", "why are you interested", "why us"},
		tip:      "Connect the company's mission or product to your experience and the impact you want to have.",
	},
	{
		keywords: []string{"conflict", "disagree", "disagreement", "difficult coworker", "tension"},
		tip:      "Stay neutral about others, focus on listening and the resolution, and share what you learned.",
	},
	{
		keywords: []string{"design", "architecture", "system", "scale", "algorithm", "technical", "database", "api"},
		tip:      "Clarify requirements first, outline the high-level design, then discuss trade-offs and bottlenecks.",
	},
}

// Select returns the coaching tip for questionText
func Select(questionText string) string {
	q := strings.ToLower(questionText)
	for _, g := range groups {
		for _, kw := range g.keywords {
			if strings.Contains(q, kw) {
				return g.tip
			}
		}
	}
	return Generic
}
