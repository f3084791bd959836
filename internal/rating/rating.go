// Package rating implements the Elo skill-estimate update used for
// provider rankings.
package rating

import "math"

// DefaultK keeps individual votes from moving ratings more than a point
// or two.
const DefaultK = 2.0

// Expected returns the logistic expected score of a player rated self
// against a player rated other.
func Expected(self, other float64) float64 {
	return 1 / (1 + math.Pow(10, (other-self)/400))
}

// Change returns the new ratings after a decided match.
func Change(winner, loser, k float64) (newWinner, newLoser float64) {
	newWinner = winner + k*(1-Expected(winner, loser))
	newLoser = loser + k*(0-Expected(loser, winner))
	return newWinner, newLoser
}
