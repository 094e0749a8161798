package tiptap

// getAttrString безопасно извлекает строковый атрибут из map.
func getAttrString(attrs map[string]interface{}, key string) string {
	if attrs == nil {
		return ""
	}
	val, ok := attrs[key]
	if !ok {
		return ""
	}
	str, ok := val.(string)
	if !ok {
		return ""
	}
	return str
}

// getAttrInt безопасно извлекает целочисленный атрибут из map.
func getAttrInt(attrs map[string]interface{}, key string) int {
	if attrs == nil {
		return 0
	}
	val, ok := attrs[key]
	if !ok {
		return 0
	}

	// Из JSON число приходит как float64
	if f, ok := val.(float64); ok {
		return int(f)
	}

	if i, ok := val.(int); ok {
		return i
	}

	return 0
}
