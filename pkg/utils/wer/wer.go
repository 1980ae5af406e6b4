// Package wer scores recognizer output against a reference transcript using
// word-level Levenshtein distance.
package wer

import (
	"math"
	"strings"
)

// WER returns (S + D + I) / N where S, D, I are the substitutions,
// deletions, and insertions needed to turn the reference into the
// hypothesis, and N is the reference word count. An empty reference scores
// 0 against an empty hypothesis and +Inf otherwise; callers that care should
// check math.IsInf. Tokens are whitespace-separated; normalize beforehand if
// case or punctuation should not count as errors.
func WER(reference, hypothesis string) float64 {
	refWords := strings.Fields(reference)
	hypWords := strings.Fields(hypothesis)

	if len(refWords) == 0 {
		if len(hypWords) == 0 {
			return 0
		}
		return math.Inf(1)
	}

	subs, dels, ins := editOps(refWords, hypWords)
	return float64(subs+dels+ins) / float64(len(refWords))
}

// EditOps returns the substitution, deletion, and insertion counts between
// the reference and hypothesis word sequences.
func EditOps(reference, hypothesis string) (subs, dels, ins int) {
	return editOps(strings.Fields(reference), strings.Fields(hypothesis))
}

func editOps(ref, hyp []string) (subs, dels, ins int) {
	n := len(ref)
	m := len(hyp)

	dp := make([][]int, n+1)
	for i := range dp {
		dp[i] = make([]int, m+1)
	}
	for i := 1; i <= n; i++ {
		dp[i][0] = i
	}
	for j := 1; j <= m; j++ {
		dp[0][j] = j
	}

	for i := 1; i <= n; i++ {
		for j := 1; j <= m; j++ {
			if ref[i-1] == hyp[j-1] {
				dp[i][j] = dp[i-1][j-1]
				continue
			}
			costSub := dp[i-1][j-1] + 1
			costIns := dp[i][j-1] + 1
			costDel := dp[i-1][j] + 1
			dp[i][j] = min(costSub, costIns, costDel)
		}
	}

	// Backtrack to attribute each edit. Ties resolve substitution first,
	// then insertion, then deletion, which keeps counts deterministic.
	i, j := n, m
	for i > 0 || j > 0 {
		switch {
		case i > 0 && j > 0 && ref[i-1] == hyp[j-1]:
			i--
			j--
		case i > 0 && j > 0 && dp[i][j] == dp[i-1][j-1]+1:
			subs++
			i--
			j--
		case j > 0 && dp[i][j] == dp[i][j-1]+1:
			ins++
			j--
		default:
			dels++
			i--
		}
	}

	return subs, dels, ins
}
