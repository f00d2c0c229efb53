package crf

import "math"

// Model holds a linear-chain CRF's learned weights: per-feature,
// per-label state weights, a per-label bias, and per-label-pair
// transition weights. Labels not present in a map score 0 for that
// feature/transition.
type Model struct {
	Labels     []Label
	StateW     map[string]map[Label]float64
	Bias       map[Label]float64
	Transition map[Label]map[Label]float64
}

// NewModel returns an empty model over the given label set, ready for
// perceptron training.
func NewModel(labels []Label) *Model {
	m := &Model{
		Labels:     append([]Label(nil), labels...),
		StateW:     map[string]map[Label]float64{},
		Bias:       map[Label]float64{},
		Transition: map[Label]map[Label]float64{},
	}
	for _, l := range labels {
		m.Bias[l] = 0
		m.Transition[l] = map[Label]float64{}
		for _, l2 := range labels {
			m.Transition[l][l2] = 0
		}
	}
	return m
}

// stateScore returns the dot product of a position's flattened feature
// weights with label's state weights, plus that label's bias.
func (m *Model) stateScore(weights []featureWeight, label Label) float64 {
	score := m.Bias[label]
	for _, fw := range weights {
		if byLabel, ok := m.StateW[fw.name]; ok {
			score += byLabel[label] * fw.weight
		}
	}
	return score
}

func (m *Model) transitionScore(prev, cur Label) float64 {
	if byPrev, ok := m.Transition[prev]; ok {
		return byPrev[cur]
	}
	return 0
}

// Decode runs Viterbi over a flattened feature sequence, returning the
// most likely label sequence and the raw (unnormalized) log-score of
// that path. An empty sequence decodes to an empty result.
func (m *Model) Decode(sequence [][]featureWeight) ([]Label, float64) {
	n := len(sequence)
	if n == 0 {
		return nil, 0
	}
	nLabels := len(m.Labels)

	// score[t][li] = best log-score of any path ending in label li at t.
	score := make([][]float64, n)
	back := make([][]int, n)
	for t := range score {
		score[t] = make([]float64, nLabels)
		back[t] = make([]int, nLabels)
	}

	for li, label := range m.Labels {
		score[0][li] = m.stateScore(sequence[0], label)
		back[0][li] = -1
	}

	for t := 1; t < n; t++ {
		for li, label := range m.Labels {
			state := m.stateScore(sequence[t], label)
			best := math.Inf(-1)
			bestPrev := 0
			for pi, prevLabel := range m.Labels {
				cand := score[t-1][pi] + m.transitionScore(prevLabel, label)
				if cand > best {
					best = cand
					bestPrev = pi
				}
			}
			score[t][li] = best + state
			back[t][li] = bestPrev
		}
	}

	bestLast := 0
	bestScore := score[n-1][0]
	for li := 1; li < nLabels; li++ {
		if score[n-1][li] > bestScore {
			bestScore = score[n-1][li]
			bestLast = li
		}
	}

	path := make([]Label, n)
	cur := bestLast
	for t := n - 1; t >= 0; t-- {
		path[t] = m.Labels[cur]
		cur = back[t][cur]
	}

	return path, bestScore
}

// ForwardBackward computes per-position marginal probabilities for every
// label and the log partition function (logZ) of the sequence, using the
// standard log-space forward-backward recursion so probabilities stay
// numerically stable over long sequences.
func (m *Model) ForwardBackward(sequence [][]featureWeight) (marginals []map[Label]float64, logZ float64) {
	n := len(sequence)
	if n == 0 {
		return nil, 0
	}
	nLabels := len(m.Labels)

	logAlpha := make([][]float64, n)
	logBeta := make([][]float64, n)
	for t := range logAlpha {
		logAlpha[t] = make([]float64, nLabels)
		logBeta[t] = make([]float64, nLabels)
	}

	for li, label := range m.Labels {
		logAlpha[0][li] = m.stateScore(sequence[0], label)
	}
	for t := 1; t < n; t++ {
		for li, label := range m.Labels {
			state := m.stateScore(sequence[t], label)
			terms := make([]float64, nLabels)
			for pi, prevLabel := range m.Labels {
				terms[pi] = logAlpha[t-1][pi] + m.transitionScore(prevLabel, label)
			}
			logAlpha[t][li] = logSumExp(terms) + state
		}
	}

	for li := range m.Labels {
		logBeta[n-1][li] = 0
	}
	for t := n - 2; t >= 0; t-- {
		for li, label := range m.Labels {
			terms := make([]float64, nLabels)
			for ni, nextLabel := range m.Labels {
				nextState := m.stateScore(sequence[t+1], nextLabel)
				terms[ni] = m.transitionScore(label, nextLabel) + nextState + logBeta[t+1][ni]
			}
			logBeta[t][li] = logSumExp(terms)
		}
	}

	logZ = logSumExp(logAlpha[n-1])

	marginals = make([]map[Label]float64, n)
	for t := 0; t < n; t++ {
		probs := make(map[Label]float64, nLabels)
		for li, label := range m.Labels {
			probs[label] = math.Exp(logAlpha[t][li] + logBeta[t][li] - logZ)
		}
		marginals[t] = probs
	}

	return marginals, logZ
}

func logSumExp(xs []float64) float64 {
	max := math.Inf(-1)
	for _, x := range xs {
		if x > max {
			max = x
		}
	}
	if math.IsInf(max, -1) {
		return max
	}
	sum := 0.0
	for _, x := range xs {
		sum += math.Exp(x - max)
	}
	return max + math.Log(sum)
}
