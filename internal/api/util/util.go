package util

// ApplyConversion maps each model to its DTO using the converter. The result
// is never nil, so empty lists render as [] rather than null.
func ApplyConversion[T any, K any](models []T, converter func(T) K) []K {
	dtos := make([]K, 0, len(models))
	for _, v := range models {
		dtos = append(dtos, converter(v))
	}

	return dtos
}
