package keyValueDb

// PrefixKey concatenates a one-byte namespace prefix with a key suffix, the
// byte-prefixed namespace scheme the server and client schemas build their
// row keys from (Funds/Outcome/Share/Event on the server, ClientFunds on the
// client), one leading byte per table.
func PrefixKey(prefix byte, suffix []byte) []byte {
	out := make([]byte, 1+len(suffix))
	out[0] = prefix
	copy(out[1:], suffix)
	return out
}

// PrefixRange returns the [start, end) bounds that select every key whose
// first byte equals prefix, for use with DB.Iterator.
func PrefixRange(prefix byte) (start, end []byte) {
	start = []byte{prefix}
	if prefix == 0xFF {
		return start, nil
	}
	return start, []byte{prefix + 1}
}

// Range returns the [start, end) bounds that select every key with prefix
// as a leading byte sequence, generalizing PrefixRange to multi-byte
// sub-namespaces such as "all signature shares for one event" within the
// single-byte Share namespace.
func Range(prefix []byte) (start, end []byte) {
	start = append([]byte(nil), prefix...)
	end = append([]byte(nil), prefix...)
	for i := len(end) - 1; i >= 0; i-- {
		if end[i] < 0xFF {
			end[i]++
			return start, end[:i+1]
		}
	}
	return start, nil
}
