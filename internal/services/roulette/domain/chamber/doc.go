// Package chamber generates the loaded sequence of rounds fired between
// reloads.
//
// A chamber always holds at least one live round. Its length and live count
// are drawn uniformly, then the rounds are shuffled, so every position is
// equally likely to be live.
package chamber
