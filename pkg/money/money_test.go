package money

import (
	"encoding/json"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		input   string
		want    Cents
		wantErr bool
	}{
		{input: "76", want: 7600},
		{input: "76.5", want: 7650},
		{input: "76.05", want: 7605},
		{input: "0.99", want: 99},
		{input: ".5", want: 50},
		{input: "-3.10", want: -310},
		{input: "+2", want: 200},
		{input: "1.234", wantErr: true},
		{input: "abc", wantErr: true},
		{input: "", wantErr: true},
		{input: ".", wantErr: true},
		{input: "92233720368547757", want: 9223372036854775700},
		{input: "92233720368547758", wantErr: true},
		{input: "-92233720368547758.99", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := Parse(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Parse(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("Parse(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestString(t *testing.T) {
	tests := map[Cents]string{
		0:      "0.00",
		54540:  "545.40",
		7605:   "76.05",
		-310:   "-3.10",
		100000: "1000.00",
	}
	for in, want := range tests {
		if got := in.String(); got != want {
			t.Errorf("Cents(%d).String() = %q, want %q", int64(in), got, want)
		}
	}
}

func TestJSON(t *testing.T) {
	var v struct {
		A Cents `json:"a"`
		B Cents `json:"b"`
	}
	if err := json.Unmarshal([]byte(`{"a": 150.25, "b": "76"}`), &v); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if v.A != 15025 || v.B != 7600 {
		t.Errorf("got a=%d b=%d", v.A, v.B)
	}
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != `{"a":150.25,"b":76.00}` {
		t.Errorf("marshal = %s", data)
	}
}

func TestPercent(t *testing.T) {
	tests := []struct {
		name   string
		amount Cents
		points int64
		want   Cents
	}{
		{name: "ten percent of 606", amount: 60600, points: 1000, want: 6060},
		{name: "rounds half up", amount: 5, points: 1000, want: 1},
		{name: "rounds down below half", amount: 4, points: 1000, want: 0},
		{name: "zero", amount: 0, points: 3000, want: 0},
		{name: "negative rounds away from zero", amount: -5, points: 1000, want: -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.amount.Percent(tt.points); got != tt.want {
				t.Errorf("Percent = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestCeilPercent(t *testing.T) {
	tests := []struct {
		name   string
		amount Cents
		points int64
		unit   Cents
		want   Cents
	}{
		{name: "deposit of 545.40 to whole units", amount: 54540, points: 3000, unit: Unit, want: 16400},
		{name: "exact multiple", amount: 50000, points: 3000, unit: Unit, want: 15000},
		{name: "to the cent", amount: 54540, points: 3000, unit: 1, want: 16362},
		{name: "zero total", amount: 0, points: 3000, unit: Unit, want: 0},
		{name: "negative total", amount: -100, points: 3000, unit: Unit, want: 0},
		{name: "one cent", amount: 1, points: 3000, unit: Unit, want: 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.amount.CeilPercent(tt.points, tt.unit); got != tt.want {
				t.Errorf("CeilPercent = %d, want %d", got, tt.want)
			}
		})
	}
}
