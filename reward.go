package possim

// ConstantReward splits a total emission budget evenly across the run:
// the flat per-epoch reward that hands out totalReward over nEpochs.
func ConstantReward(totalReward float64, nEpochs int) float64 {
	if nEpochs <= 0 {
		return 0
	}
	return totalReward / float64(nEpochs)
}

// DynamicReward is a linearly growing emission schedule: the per-epoch
// reward starts at the constant rate and grows with the epoch fraction,
// so late epochs pay more than early ones.
func DynamicReward(totalReward float64, nEpochs, epoch int) float64 {
	if nEpochs <= 0 {
		return 0
	}
	base := totalReward / float64(nEpochs)
	return base + float64(epoch)/float64(nEpochs)*totalReward
}
