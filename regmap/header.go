// Copyright 2025 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package regmap

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

const (
	hdrGenerated = "Generated register defines for "
	hdrEnd       = "End generated register defines for "
	hdrCopyright = "Copyright information found in source file:"
	hdrLicense   = "Licensing information found in source file:"
	hdrCommon    = " (common parameters)"
)

// WriteHeader writes the register map m as a C header of register defines.
func WriteHeader(w io.Writer, m *Map) error {
	var (
		buf    = bufio.NewWriter(w)
		err    error
		printf = func(format string, args ...interface{}) {
			_, e := fmt.Fprintf(buf, format, args...)
			if err == nil {
				err = e
			}
		}
		pfx   = strings.ToUpper(m.Name)
		guard = "_" + pfx + "_REG_DEFS_"
	)

	printf("// %s%s\n\n", hdrGenerated, m.Name)
	if len(m.Copyright) > 0 {
		printf("// %s\n", hdrCopyright)
		for _, txt := range m.Copyright {
			printf("// %s\n", txt)
		}
		printf("\n")
	}
	if len(m.License) > 0 {
		printf("// %s\n", hdrLicense)
		for _, txt := range m.License {
			printf("// %s\n", txt)
		}
		printf("\n")
	}
	printf("#ifndef %s\n#define %s\n\n", guard, guard)
	printf("#ifdef __cplusplus\nextern \"C\" {\n#endif\n")
	printf("// Register width\n#define %s_PARAM_REG_WIDTH %d\n\n", pfx, m.Width)

	for _, reg := range m.Regs {
		if reg.Group != "" && reg.Index == 0 {
			g, e := m.Group(reg.Group)
			if e != nil {
				return fmt.Errorf("regmap: could not write header: %w", e)
			}
			name := pfx + "_" + g.Name
			printf("// %s%s\n", g.Desc, hdrCommon)
			printf("#define %s_%s_FIELD_WIDTH %d\n", name, g.Name, g.FieldWidth)
			printf("#define %s_%s_FIELDS_PER_REG %d\n", name, g.Name, g.FieldsPerReg)
			printf("#define %s_MULTIREG_COUNT %d\n\n", name, g.Count)
		}

		name := pfx + "_" + reg.Name
		printf("// %s\n", reg.Desc)
		printf("#define %s_REG_OFFSET %#x\n", name, reg.Offset)
		for _, f := range reg.Fields {
			fname := name + "_" + f.Name
			if f.Width() == 1 {
				printf("#define %s_BIT %d\n", fname, f.Offset)
				continue
			}
			printf("#define %s_MASK %#x\n", fname, f.Mask)
			printf("#define %s_OFFSET %d\n", fname, f.Offset)
			printf("#define %s_FIELD \\\n", fname)
			printf(
				"  ((bitfield_field32_t) { .mask = %[1]s_MASK, .index = %[1]s_OFFSET })\n",
				fname,
			)
		}
		printf("\n")
	}

	printf("#ifdef __cplusplus\n}  // extern \"C\"\n#endif\n")
	printf("#endif  // %s\n", guard)
	printf("// %s%s", hdrEnd, m.Name)

	if err != nil {
		return fmt.Errorf("regmap: could not write header: %w", err)
	}

	err = buf.Flush()
	if err != nil {
		return fmt.Errorf("regmap: could not write header: %w", err)
	}
	return nil
}

// ParseHeader reads a C header of register defines, as written by
// WriteHeader, and returns the corresponding register map.
func ParseHeader(r io.Reader) (*Map, error) {
	var (
		m    = &Map{}
		scan = bufio.NewScanner(r)
		line int
		pfx  string

		comment string
		section *[]string
		cur     *Register

		masks = make(map[string]uint32)
		param struct {
			width   int
			perReg  int
			pending bool
		}
	)

	errorf := func(format string, args ...interface{}) error {
		return fmt.Errorf("regmap: invalid header line %d: "+format, append([]interface{}{line}, args...)...)
	}

	for scan.Scan() {
		line++
		txt := strings.TrimSpace(scan.Text())
		switch {
		case txt == "":
			section = nil
			continue
		case strings.HasPrefix(txt, "//"):
			comment = strings.TrimSpace(strings.TrimPrefix(txt, "//"))
			switch {
			case strings.HasPrefix(comment, hdrGenerated):
				m.Name = strings.TrimPrefix(comment, hdrGenerated)
			case comment == hdrCopyright:
				section = &m.Copyright
			case comment == hdrLicense:
				section = &m.License
			case section != nil:
				*section = append(*section, comment)
			}
			continue
		case !strings.HasPrefix(txt, "#define "):
			// preprocessor guards, extern "C" blocks and
			// continuation lines of _FIELD macros.
			continue
		}

		toks := strings.Fields(txt)
		if len(toks) != 3 || toks[2] == `\` {
			continue
		}
		key, val := toks[1], toks[2]
		if strings.HasSuffix(key, "_PARAM_REG_WIDTH") {
			pfx = strings.TrimSuffix(key, "PARAM_REG_WIDTH")
			v, err := strconv.Atoi(val)
			if err != nil {
				return nil, errorf("invalid register width %q: %w", val, err)
			}
			m.Width = v
			continue
		}
		if pfx == "" || !strings.HasPrefix(key, pfx) {
			return nil, errorf("define %q outside of register prefix %q", key, pfx)
		}
		key = strings.TrimPrefix(key, pfx)

		v, err := strconv.ParseUint(val, 0, 32)
		if err != nil {
			return nil, errorf("invalid value %q for %s: %w", val, key, err)
		}

		switch {
		case strings.HasSuffix(key, "_REG_OFFSET"):
			m.Regs = append(m.Regs, Register{
				Name:   strings.TrimSuffix(key, "_REG_OFFSET"),
				Desc:   comment,
				Offset: uint32(v),
			})
			cur = &m.Regs[len(m.Regs)-1]
			tagGroup(m, cur)
			continue

		case strings.HasSuffix(key, "_FIELDS_PER_REG"):
			param.perReg = int(v)
			param.pending = true
			continue

		case strings.HasSuffix(key, "_FIELD_WIDTH"):
			param.width = int(v)
			param.pending = true
			continue

		case strings.HasSuffix(key, "_MULTIREG_COUNT"):
			if !param.pending {
				return nil, errorf("multiregister count without common parameters")
			}
			m.Multi = append(m.Multi, MultiReg{
				Name:         strings.TrimSuffix(key, "_MULTIREG_COUNT"),
				Desc:         strings.TrimSuffix(comment, hdrCommon),
				FieldWidth:   param.width,
				FieldsPerReg: param.perReg,
				Count:        int(v),
			})
			param.pending = false
			cur = nil
			continue
		}

		if cur == nil || !strings.HasPrefix(key, cur.Name+"_") {
			return nil, errorf("field define %q outside of a register", key)
		}
		fname := strings.TrimPrefix(key, cur.Name+"_")
		switch {
		case strings.HasSuffix(fname, "_BIT"):
			cur.Fields = append(cur.Fields, Bit(strings.TrimSuffix(fname, "_BIT"), uint(v)))
		case strings.HasSuffix(fname, "_MASK"):
			masks[strings.TrimSuffix(fname, "_MASK")] = uint32(v)
		case strings.HasSuffix(fname, "_OFFSET"):
			fname = strings.TrimSuffix(fname, "_OFFSET")
			mask, ok := masks[fname]
			if !ok {
				return nil, errorf("field %s.%s: offset without mask", cur.Name, fname)
			}
			cur.Fields = append(cur.Fields, NewField(fname, mask, uint(v)))
		default:
			return nil, errorf("unknown define %q", key)
		}
	}

	if err := scan.Err(); err != nil {
		return nil, fmt.Errorf("regmap: could not scan header: %w", err)
	}

	if m.Name == "" {
		m.Name = strings.ToLower(strings.TrimSuffix(pfx, "_"))
	}

	return m, nil
}

// tagGroup attaches reg to the multiregister group it is an element of.
func tagGroup(m *Map, reg *Register) {
	for i := range m.Multi {
		g := &m.Multi[i]
		idx, ok := strings.CutPrefix(reg.Name, g.Name+"_")
		if !ok {
			continue
		}
		n, err := strconv.Atoi(idx)
		if err != nil || n < 0 || strconv.Itoa(n) != idx {
			continue
		}
		reg.Group = g.Name
		reg.Index = n
		if n == 0 {
			g.Base = reg.Offset
		}
		return
	}
}
