/*
Package choice decides which words are offered to a visitor on each turn.

Candidates are ranked by branching score with a deliberately fuzzy
comparator, shortlisted, and then sampled with exponentially decaying
weights so the strongest paths are favoured without the experience
feeling scripted. Options applies the padding policy that turns a
selection into exactly what the host renders.
*/
package choice
