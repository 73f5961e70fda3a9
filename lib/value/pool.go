package value

// SharedIntegers is the size of the shared-integer pool: every integer in
// [0, SharedIntegers) is represented by one immutable process-wide
// singleton, so all keys holding that number alias the same instance.
const SharedIntegers = 10000

// sharedPool holds the singletons. Initialized once at startup; the
// entries are never written again.
var sharedPool [SharedIntegers]Value

func init() {
	for i := range sharedPool {
		sharedPool[i] = Value{enc: EncInt, num: int64(i), shared: true}
	}
}
