package stats

var queueNames = map[int]string{
	400:  "Normal",
	420:  "Ranked Solo",
	430:  "Normal",
	440:  "Ranked Flex",
	450:  "ARAM",
	700:  "Clash",
	830:  "Co-op vs AI",
	840:  "Co-op vs AI",
	850:  "Co-op vs AI",
	900:  "URF",
	1020: "One for All",
	1300: "Nexus Blitz",
	1400: "Ultimate Spellbook",
	1700: "Arena",
}

// QueueName returns the display name of a queue id
func QueueName(queueID int) string {
	if name, ok := queueNames[queueID]; ok {
		return name
	}
	return "Other"
}
