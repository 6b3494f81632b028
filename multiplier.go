package stdf

import "fmt"

// Multipliers maps each K array field to the field of the same record holding
// its element count. A field shared by several record kinds lists one driver per
// kind; the first driver present in the record is used.
var Multipliers = map[string][]string{
	"SITE_NUM": {"SITE_CNT"},             // SDR
	"PMR_INDX": {"INDX_CNT", "LOCM_CNT"}, // PGR, NMR
	"GRP_INDX": {"GRP_CNT"},              // PLR
	"GRP_MODE": {"GRP_CNT"},
	"GRP_RADX": {"GRP_CNT"},
	"PGM_CHAR": {"GRP_CNT"},
	"RTN_CHAR": {"GRP_CNT"},
	"PGM_CHAL": {"GRP_CNT"},
	"RTN_CHAL": {"GRP_CNT"},
	"RTN_INDX": {"RTN_ICNT"}, // FTR, MPR
	"RTN_STAT": {"RTN_ICNT"},
	"PGM_INDX": {"PGM_ICNT"}, // FTR
	"PGM_STAT": {"PGM_ICNT"},
	"RTN_RSLT": {"RSLT_CNT"}, // MPR
	"UPD_NAM":  {"UPD_CNT"},  // VUR
	"PAT_BGN":  {"LOCP_CNT"}, // PSR
	"PAT_END":  {"LOCP_CNT"},
	"PAT_FILE": {"LOCP_CNT"},
	"PAT_LBL":  {"LOCP_CNT"},
	"FILE_UID": {"LOCP_CNT"},
	"ATPG_DSC": {"LOCP_CNT"},
	"SRC_ID":   {"LOCP_CNT"},
	"ATPG_NAM": {"LOCM_CNT"}, // NMR
	"CHN_LIST": {"CHN_CNT"},  // SSR
	"M_CLKS":   {"MSTR_CNT"}, // CDR
	"S_CLKS":   {"SLAV_CNT"},
	"CELL_LST": {"LST_CNT"},
	"RTST_BIN": {"NUM_BINS"}, // RDR
}

// FieldGetter is the read side of a field map. *Fields and Map implement it.
type FieldGetter interface {
	Get(name string) (any, bool)
}

// ResolveCount returns the element count of the K array field, read from its
// driver field in the partially decoded (or encoded) record.
func ResolveCount(field string, decoded FieldGetter) (int, error) {
	drivers, ok := Multipliers[field]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnknownMultiplier, field)
	}
	for _, driver := range drivers {
		v, ok := decoded.Get(driver)
		if !ok {
			continue
		}
		n, err := toUint(v)
		if err != nil {
			return 0, fmt.Errorf("driver %s of %s: %w", driver, field, err)
		}
		if n > MaxBodyLen {
			return 0, fmt.Errorf("%w: driver %s of %s is %d", ErrValueRange, driver, field, n)
		}
		return int(n), nil
	}
	return 0, fmt.Errorf("%w: %s needs one of %v", ErrMissingDriverField, field, drivers)
}
