package quiz

import (
	"fmt"
	"math/rand/v2"
)

// Order decides how the next word is drawn from the list
type Order string

const (
	// OrderRandom draws uniformly at random with replacement
	OrderRandom Order = "random"
	// OrderShuffle visits every word once per cycle and reshuffles when the cycle ends
	OrderShuffle Order = "shuffle"
)

func ParseOrder(value string) (Order, error) {
	switch Order(value) {
	case OrderRandom, OrderShuffle:
		return Order(value), nil
	case "":
		return OrderRandom, nil
	}
	return "", fmt.Errorf("unknown order %q: must be %s or %s", value, OrderRandom, OrderShuffle)
}

type picker interface {
	next(size int) int
}

func newPicker(order Order, random *rand.Rand) picker {
	if order == OrderShuffle {
		return &shufflePicker{random: random}
	}
	return &randomPicker{random: random}
}

type randomPicker struct {
	random *rand.Rand
}

func (picker *randomPicker) next(size int) int {
	return picker.random.IntN(size)
}

type shufflePicker struct {
	random   *rand.Rand
	sequence []int
	position int
}

func (picker *shufflePicker) next(size int) int {
	if len(picker.sequence) != size || picker.position >= len(picker.sequence) {
		picker.sequence = picker.random.Perm(size)
		picker.position = 0
	}
	index := picker.sequence[picker.position]
	picker.position++
	return index
}
