package service

import (
	"strings"

	"github.com/floodwatch/backend/pkg/utils"
)

// nearestDistrictRadiusKm bounds the coordinate fallback when no district name matches.
const nearestDistrictRadiusKm = 3.0

// District is an administrative district with its KMA forecast grid cell and
// the typical flood depth it reaches in heavy rain.
type District struct {
	Name      string
	Alias     string // romanized name, matched case-insensitively
	Latitude  float64
	Longitude float64
	NX, NY    int
	BaseDepth float64 // meters
}

// defaultDistrict is Seoul City Hall, used when nothing else matches.
var defaultDistrict = District{
	Name:      "서울시청",
	Alias:     "Seoul City Hall",
	Latitude:  37.5665,
	Longitude: 126.9780,
	NX:        60,
	NY:        127,
	BaseDepth: 0.5,
}

// districts is matched in order; the first name contained in the location wins.
var districts = []District{
	// Seoul
	{"강남구", "Gangnam", 37.5172, 127.0474, 61, 126, 0.5},
	{"강동구", "Gangdong", 37.5301, 127.1237, 62, 126, 0.6},
	{"강북구", "Gangbuk", 37.6398, 127.0255, 61, 129, 0.4},
	{"강서구", "Gangseo", 37.5509, 126.8495, 55, 127, 0.7},
	{"관악구", "Gwanak", 37.4784, 126.9515, 59, 125, 0.5},
	{"광진구", "Gwangjin", 37.5386, 127.0823, 62, 127, 0.6},
	{"구로구", "Guro", 37.4955, 126.8874, 56, 125, 0.5},
	{"금천구", "Geumcheon", 37.4519, 126.9020, 57, 124, 0.4},
	{"노원구", "Nowon", 37.6542, 127.0568, 61, 130, 0.7},
	{"도봉구", "Dobong", 37.6688, 127.0471, 61, 131, 0.6},
	{"동대문구", "Dongdaemun", 37.5744, 127.0396, 61, 127, 0.5},
	{"동작구", "Dongjak", 37.5124, 126.9393, 59, 126, 0.5},
	{"마포구", "Mapo", 37.5663, 126.9018, 58, 127, 0.6},
	{"서대문구", "Seodaemun", 37.5791, 126.9368, 59, 127, 0.4},
	{"서초구", "Seocho", 37.4836, 127.0324, 61, 125, 0.5},
	{"성동구", "Seongdong", 37.5633, 127.0368, 61, 127, 0.6},
	{"성북구", "Seongbuk", 37.5894, 127.0167, 61, 128, 0.5},
	{"송파구", "Songpa", 37.5145, 127.1059, 62, 126, 0.7},
	{"양천구", "Yangcheon", 37.5270, 126.8562, 56, 126, 0.4},
	{"영등포구", "Yeongdeungpo", 37.5264, 126.8963, 57, 126, 0.5},
	{"용산구", "Yongsan", 37.5326, 126.9900, 60, 126, 0.6},
	{"은평구", "Eunpyeong", 37.6027, 126.9291, 58, 128, 0.5},
	{"종로구", "Jongno", 37.5730, 126.9794, 60, 127, 0.4},
	{"중구", "Jung-gu", 37.5638, 126.9975, 60, 127, 0.5},
	{"중랑구", "Jungnang", 37.6066, 127.0926, 62, 128, 0.6},
	// Busan
	{"해운대구", "Haeundae", 35.1631, 129.1636, 102, 42, 1.0},
	{"부산진구", "Busanjin", 35.1628, 129.0532, 100, 42, 0.9},
	{"수영구", "Suyeong", 35.1455, 129.1132, 101, 41, 1.0},
	// Other metropolitan areas
	{"분당구", "Bundang", 37.3827, 127.1189, 61, 122, 0.4},
	{"일산동구", "Ilsan", 37.6777, 126.7489, 56, 129, 0.5},
	{"수성구", "Suseong", 35.8584, 128.6306, 90, 90, 0.7},
	{"유성구", "Yuseong", 36.3622, 127.3563, 67, 101, 0.7},
	{"연수구", "Yeonsu", 37.4094, 126.6784, 56, 123, 0.2},
}

// MatchDistrict picks the district for a prediction request: by name first, then
// the nearest district within a few kilometres of the coordinates. The second
// return value is false when the Seoul City Hall default was used.
func MatchDistrict(location string, lat, lon float64) (District, bool) {
	lower := strings.ToLower(location)
	for _, d := range districts {
		if strings.Contains(location, d.Name) || strings.Contains(lower, strings.ToLower(d.Alias)) {
			return d, true
		}
	}

	if lat == 0 && lon == 0 {
		return defaultDistrict, false
	}

	best, bestDist := District{}, nearestDistrictRadiusKm
	found := false
	for _, d := range districts {
		if dist := utils.Haversine(lat, lon, d.Latitude, d.Longitude); dist <= bestDist {
			best, bestDist, found = d, dist, true
		}
	}
	if found {
		return best, true
	}
	return defaultDistrict, false
}
