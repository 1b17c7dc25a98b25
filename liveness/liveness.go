// Package liveness implements the backward liveness pass of §4.3: it
// annotates surviving instructions with per-operand live flags and a
// used_next bit, and deletes instructions whose only result is a dead
// temporary (along with the temporary itself).
package liveness

import (
	"fmt"

	"mplcg/diag"
	"mplcg/ir"
)

// Run walks every block of routine backward, pruning dead-temp-producing
// instructions from the IR (removing the temp from container too) and
// setting UsedNext/Live on everything that survives. log receives
// structural warnings; it may be nil.
func Run(container *ir.Container, routine *ir.Object, log *diag.Log) error {
	if routine.Variant() != ir.VariantRoutine {
		return diag.Errorf(diag.BadCast, "liveness.Run", routine.Name())
	}
	peak := 0
	for _, block := range routine.Routine.Blocks {
		blockPeak, err := runBlock(container, block, log)
		if err != nil {
			return err
		}
		if blockPeak > peak {
			peak = blockPeak
		}
	}
	routine.Routine.PeakTemps = peak
	return nil
}

// runBlock performs one backward pass over a single block, mutating its
// Instructions slice in place (possibly shrinking it via removals), and
// returns the peak number of simultaneously live temporaries observed —
// the basis for the routine's spill-region size.
func runBlock(container *ir.Container, block *ir.Block, log *diag.Log) (int, error) {
	live := make(map[*ir.Object]bool)
	var arg1, arg2 *ir.Object
	peak := 0
	liveTemps := 0
	noteLive := func(obj *ir.Object, nowLive bool) {
		wasLive := live[obj]
		if obj.Storage() == ir.ClassTemp {
			if nowLive && !wasLive {
				liveTemps++
			} else if !nowLive && wasLive {
				liveTemps--
			}
			if liveTemps > peak {
				peak = liveTemps
			}
		}
		live[obj] = nowLive
	}

	i := len(block.Instructions) - 1
	for i >= 0 {
		inst := block.Instructions[i]
		class, ok := ir.Classify(inst.Op)
		if !ok {
			return 0, diag.Errorf(diag.UnknownOpcode, "liveness.runBlock", fmt.Sprintf("%v", inst.Op))
		}

		switch class {
		case ir.ClassNoArg:
			// no change

		case ir.ClassNoResult:
			inst.Left.Live = true
			if inst.Left.Object != nil {
				noteLive(inst.Left.Object, true)
			}
			inst.UsedNext = false
			block.Instructions[i] = inst
			arg1, arg2 = inst.Left.Object, nil

		case ir.ClassUnaryResult:
			resultObj := inst.Result.Object
			if resultObj != nil && resultObj.Storage() == ir.ClassTemp && !live[resultObj] {
				block.RemoveAt(i)
				if err := container.Remove(resultObj.Name()); err != nil {
					return 0, err
				}
				i--
				continue
			}
			inst.Result.Live = false
			inst.Left.Live = true
			inst.UsedNext = resultObj != nil && (resultObj == arg1 || resultObj == arg2)
			block.Instructions[i] = inst
			if resultObj != nil {
				noteLive(resultObj, false)
			}
			if inst.Left.Object != nil {
				noteLive(inst.Left.Object, true)
			}
			arg1, arg2 = inst.Left.Object, nil

		case ir.ClassBinaryResult:
			resultObj := inst.Result.Object
			if resultObj != nil && resultObj.Storage() == ir.ClassTemp && !live[resultObj] {
				block.RemoveAt(i)
				if err := container.Remove(resultObj.Name()); err != nil {
					return 0, err
				}
				i--
				continue
			}
			inst.Result.Live = false
			inst.Left.Live = true
			inst.Right.Live = true
			inst.UsedNext = resultObj != nil && (resultObj == arg1 || resultObj == arg2)
			block.Instructions[i] = inst
			if resultObj != nil {
				noteLive(resultObj, false)
			}
			if inst.Left.Object != nil {
				noteLive(inst.Left.Object, true)
			}
			if inst.Right.Object != nil {
				noteLive(inst.Right.Object, true)
			}
			arg1, arg2 = inst.Left.Object, inst.Right.Object
		}

		i--
	}
	return peak, nil
}
