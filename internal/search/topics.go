package search

import "strings"

// topic is a canned explanation returned when no memory matches a query.
type topic struct {
	keywords []string
	text     string
}

// topics is checked top to bottom and the first keyword contained in the
// query wins. "machine learning" therefore resolves to the learning entry.
var topics = []topic{
	{
		keywords: []string{"javascript", "js"},
		text: `JavaScript is the programming language of the web. It is high-level, dynamically typed and runs both in browsers and on servers through Node.js, so the same language covers frontend and backend work.

Key features:
• First-class functions and closures
• An event-driven, non-blocking execution model
• A huge package ecosystem on npm
• Modern syntax such as modules, arrow functions and async/await

Almost every interactive web application relies on JavaScript, which keeps it among the most widely used languages in the world.`,
	},
	{
		keywords: []string{"python"},
		text: `Python is a high-level, interpreted programming language designed around readability. Created by Guido van Rossum, it uses significant indentation and a small set of clear language rules.

Key characteristics:
• Simple syntax that is easy to learn
• A large standard library ("batteries included")
• A strong community and ecosystem
• Used for web development, data science, AI and automation
• Popular tools: Django, Flask, FastAPI, NumPy, Pandas

Python is a common first language and a workhorse for data analysis, machine learning and scripting.`,
	},
	{
		keywords: []string{"react"},
		text: `React is a JavaScript library for building user interfaces. Originally developed at Facebook, it describes a UI as a tree of components and updates the page efficiently through a virtual DOM.

Core concepts:
• Reusable components
• JSX for writing markup inside JavaScript
• One-way data flow through props
• Hooks for state and side effects
• A virtual DOM that keeps rendering fast

Its ecosystem includes React Native for mobile apps, Next.js for full-stack applications and a long list of component libraries.`,
	},
	{
		keywords: []string{"productivity", "productive"},
		text: `Productivity is about getting meaningful work done with the time and energy you have. A few strategies that help:

Time management:
• Block time in your calendar for focused work
• Prioritize with the Eisenhower Matrix
• Work in Pomodoro sessions of 25 minutes
• Remove distractions before you start

Organization:
• Keep one trusted task list
• Batch similar tasks together
• Plan tomorrow at the end of today

Focus:
• Schedule deep work sessions
• Take regular breaks to recover energy
• Do anything that takes under two minutes right away

Productivity means working smarter, not longer.`,
	},
	{
		keywords: []string{"learning", "study"},
		text: `Effective learning builds on how memory actually works. Proven strategies include:

Active techniques:
• Spaced repetition for long-term retention
• Active recall instead of re-reading
• Explaining concepts in simple words (the Feynman Technique)
• Testing yourself often

Study habits:
• Break material into small chunks
• Combine visual, auditory and hands-on practice
• Draw mind maps to connect ideas
• Focus on the concepts with the highest impact first

Memory:
• Sleep well, since memories consolidate during sleep
• Use mnemonics and memory palaces
• Link new ideas to things you already know

Consistency and a good environment matter as much as any technique.`,
	},
	{
		keywords: []string{"business", "entrepreneur"},
		text: `Business and entrepreneurship are about creating value for customers in a sustainable way. Key principles:

Fundamentals:
• Know your market and your customers' problems
• Offer a clear value proposition
• Build a revenue model that covers your costs
• Watch cash flow closely

Mindset:
• Take calculated risks and learn from failure
• Stay adaptable and pivot when the evidence says so
• Invest in your network and relationships

Growth:
• Validate ideas before investing heavily
• Keep existing customers happy
• Use technology to scale
• Build a strong team and culture

Lasting success needs persistence, strategy and consistent execution.`,
	},
	{
		keywords: []string{"health", "wellness", "fitness"},
		text: `Health and wellness cover physical, mental and emotional well-being. A balanced approach:

Physical health:
• Exercise regularly: cardio, strength and mobility
• Eat mostly whole, minimally processed foods
• Sleep 7-9 hours a night
• Drink enough water

Mental health:
• Practice stress management
• Keep up social connections
• Try mindfulness or meditation
• Ask for professional help when you need it

Daily habits:
• Keep consistent routines
• Take breaks from screens
• Spend time outdoors
• Practice gratitude

Small, consistent changes usually bring the most lasting improvements.`,
	},
	{
		keywords: []string{"ai", "artificial intelligence", "machine learning"},
		text: `Artificial Intelligence (AI) is the field of building machines that perform tasks which normally require human intelligence.

Types of AI:
• Narrow AI: systems specialized for a single task (today's AI)
• General AI: human-level ability across domains (a research goal)
• Machine learning: systems that learn patterns from data
• Deep learning: machine learning with many-layered neural networks

Applications:
• Natural language processing: chatbots and translation
• Computer vision: image recognition and self-driving cars
• Recommendation systems for shopping and streaming
• Predictive analytics in finance and healthcare

AI is evolving quickly and is becoming part of most modern software.`,
	},
}

// LookupTopic returns the canned explanation for the first topic whose
// keyword is contained in query, ignoring case.
func LookupTopic(query string) (string, bool) {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return "", false
	}
	for _, t := range topics {
		for _, kw := range t.keywords {
			if strings.Contains(q, kw) {
				return t.text, true
			}
		}
	}
	return "", false
}
