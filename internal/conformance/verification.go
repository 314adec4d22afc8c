package conformance

// verifyResults compares every response with its case's expected scores.
// Repeated submissions are covered too: each must equal the same expectation.
func verifyResults(cases []Case, results []result, report *Report) {
	for _, r := range results {
		report.Submitted++
		c := cases[r.caseIndex]
		switch {
		case r.err != nil:
			report.Failed++
			if len(report.Mismatches) < maxMismatches {
				report.Mismatches = append(report.Mismatches, Mismatch{
					CaseID:   c.ID,
					Attempt:  r.attempt,
					Status:   r.status,
					Expected: c.Expected,
					Error:    r.err.Error(),
				})
			}
		case r.scores != c.Expected:
			report.Mismatched++
			if len(report.Mismatches) < maxMismatches {
				report.Mismatches = append(report.Mismatches, Mismatch{
					CaseID:   c.ID,
					Attempt:  r.attempt,
					Status:   r.status,
					Expected: c.Expected,
					Got:      r.scores,
				})
			}
		default:
			report.Matched++
		}
	}
}
