package configpatch

// Merge overlays patch onto target in place and returns how many values were patched.
//
// A key counts as patched when the patch holds a mapping there and the target holds anything
// else (or nothing): the target value is replaced wholesale. Mappings on both sides are merged
// recursively. Any other patch value overwrites the target without being counted.
// Keys missing from the patch are kept.
func Merge(target, patch map[string]any) int {
	patched := 0

	for key, patchValue := range patch {
		patchMap, patchIsMap := asMapping(patchValue)
		if !patchIsMap {
			target[key] = patchValue

			continue
		}

		targetMap, targetIsMap := asMapping(target[key])
		if !targetIsMap {
			target[key] = patchMap
			patched++

			continue
		}

		// asMapping may have converted the target; store the merged copy back.
		target[key] = targetMap
		patched += Merge(targetMap, patchMap)
	}

	return patched
}
