package unittest

// Groups splits cases into parallel groups the way ThreadedRunner schedules
// them: every case without the Parallel flag opens a new group and the
// flagged cases after it join that group. A flagged first case opens the
// first group.
func Groups(cases []*Case) [][]*Case {
	var groups [][]*Case
	for _, tc := range cases {
		if len(groups) == 0 || !tc.flags.Has(Parallel) {
			groups = append(groups, []*Case{tc})
			continue
		}
		last := len(groups) - 1
		groups[last] = append(groups[last], tc)
	}
	return groups
}
