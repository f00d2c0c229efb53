package crf

// TrainAveragedPerceptron trains a Model using the averaged structured
// perceptron: the "ap" algorithm named in the training interface. For
// each sequence, Viterbi-decode with the current weights; wherever the
// prediction disagrees with the gold label, nudge the gold label's state
// and transition weights up and the predicted label's down. The returned
// model's weights are the running average of every intermediate weight
// snapshot, which generalizes far better than the final, noisier
// snapshot a plain (unaveraged) perceptron would return.
//
// lbfgs, l2sgd, pa, and arow are not implemented: each needs a convex
// numerical optimizer (L-BFGS, stochastic gradient with L2 shrinkage,
// passive-aggressive margin updates, adaptive regularization of weight
// vectors) and no such optimizer exists in this module or the example
// pack; ap is the one algorithm expressible as a direct structured
// update rule without one.
func TrainAveragedPerceptron(sequences [][]FeatureDict, golds []([]Label), maxIterations int) *Model {
	model := NewModel(Labels)
	sum := NewModel(Labels)
	updates := 0

	flattened := make([][][]featureWeight, len(sequences))
	for i, seq := range sequences {
		flat := make([][]featureWeight, len(seq))
		for j, dict := range seq {
			flat[j] = flatten(dict)
		}
		flattened[i] = flat
	}

	for iter := 0; iter < maxIterations; iter++ {
		for si, seq := range flattened {
			gold := golds[si]
			if len(gold) != len(seq) || len(seq) == 0 {
				continue
			}

			predicted, _ := model.Decode(seq)
			if !labelsEqual(predicted, gold) {
				for t := range seq {
					if predicted[t] != gold[t] {
						updateState(model, seq[t], gold[t], 1.0)
						updateState(model, seq[t], predicted[t], -1.0)
						model.Bias[gold[t]] += 1.0
						model.Bias[predicted[t]] -= 1.0
					}
					if t > 0 && (predicted[t] != gold[t] || predicted[t-1] != gold[t-1]) {
						model.Transition[gold[t-1]][gold[t]] += 1.0
						model.Transition[predicted[t-1]][predicted[t]] -= 1.0
					}
				}
			}

			updates++
			accumulate(sum, model)
		}
	}

	if updates == 0 {
		return model
	}
	average(sum, updates)
	return sum
}

func updateState(model *Model, weights []featureWeight, label Label, sign float64) {
	for _, fw := range weights {
		if _, ok := model.StateW[fw.name]; !ok {
			model.StateW[fw.name] = map[Label]float64{}
		}
		model.StateW[fw.name][label] += sign * fw.weight
	}
}

func accumulate(sum, model *Model) {
	for name, byLabel := range model.StateW {
		if _, ok := sum.StateW[name]; !ok {
			sum.StateW[name] = map[Label]float64{}
		}
		for label, w := range byLabel {
			sum.StateW[name][label] += w
		}
	}
	for label, w := range model.Bias {
		sum.Bias[label] += w
	}
	for prev, byCur := range model.Transition {
		for cur, w := range byCur {
			sum.Transition[prev][cur] += w
		}
	}
}

func average(sum *Model, updates int) {
	n := float64(updates)
	for name := range sum.StateW {
		for label := range sum.StateW[name] {
			sum.StateW[name][label] /= n
		}
	}
	for label := range sum.Bias {
		sum.Bias[label] /= n
	}
	for prev := range sum.Transition {
		for cur := range sum.Transition[prev] {
			sum.Transition[prev][cur] /= n
		}
	}
}

func labelsEqual(a, b []Label) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
