/*
Copyright © 2024 the dyncore authors.
This file is part of dyncore.

dyncore is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

dyncore is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with dyncore.  If not, see <http://www.gnu.org/licenses/>.
*/

package dyncore

import (
	"runtime"
	"sync"
)

// parallelOverIndex runs fn(i) concurrently for i in [0,n), using a fixed
// pool of runtime.GOMAXPROCS(0) goroutines that each claim indices by
// stride, the same shape as the teacher's Calculations helper in run.go.
// It blocks until every index has been processed.
func parallelOverIndex(n int, fn func(i int)) {
	if n == 0 {
		return
	}
	nprocs := runtime.GOMAXPROCS(0)
	if nprocs > n {
		nprocs = n
	}
	var wg sync.WaitGroup
	wg.Add(nprocs)
	for pp := 0; pp < nprocs; pp++ {
		go func(pp int) {
			defer wg.Done()
			for i := pp; i < n; i += nprocs {
				fn(i)
			}
		}(pp)
	}
	wg.Wait()
}
