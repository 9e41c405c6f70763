package memory

// SampleSource provides a minimal built-in topic set so the quiz can run
// without any content on disk.
func SampleSource() *Source {
	registry := JSON(`{"topics": [
		{"display_name": "General Science", "file_name": "science"},
		{"display_name": "World Geography", "file_name": "geography"}
	]}`)

	return NewSource(&registry, map[string]Document{
		"science": JSON(`[
			{"question": "What is the chemical symbol for water?", "A": "H2O", "B": "O2", "C": "CO2", "D": "NaCl", "answer": "A"},
			{"question": "Which planet is known as the Red Planet?", "A": "Venus", "B": "Jupiter", "C": "Mars", "D": "Saturn", "answer": "C"},
			{"question": "What gas do plants absorb from the air?", "A": "Oxygen", "B": "Carbon dioxide", "C": "Nitrogen", "D": "Helium", "answer": "B"},
			{"question": "How many bones are in the adult human body?", "A": "106", "B": "156", "C": "306", "D": "206", "answer": "D"}
		]`),
		"geography": JSON(`[
			{"question": "What is the capital of Australia?", "A": "Sydney", "B": "Canberra", "C": "Melbourne", "D": "Perth", "answer": "B"},
			{"question": "Which river is the longest in the world?", "A": "Nile", "B": "Amazon", "C": "Yangtze", "D": "Mississippi", "answer": "A"},
			{"question": "Which continent has the most countries?", "A": "Asia", "B": "Europe", "C": "Africa", "D": "South America", "answer": "C"}
		]`),
	})
}
