package slbench

import "testing"

func testSetup() InfrastructureSetup {
	return InfrastructureSetup{
		Camera: DeviceSetup{
			Resolution:    Resolution{Width: 64, Height: 48},
			HorizontalFOV: 60,
			VerticalFOV:   45,
		},
		Projector: DeviceSetup{
			Resolution:    Resolution{Width: 32, Height: 24},
			HorizontalFOV: 60,
			VerticalFOV:   45,
		},
		CameraProjectorSeparation: 0.25,
	}
}

func TestInfrastructureSetupValidate(t *testing.T) {
	if err := testSetup().Validate(); err != nil {
		t.Fatalf("valid setup rejected: %v", err)
	}

	bad := testSetup()
	bad.Camera.Resolution.Width = 0
	if err := bad.Validate(); err == nil {
		t.Fatal("zero camera width accepted")
	}

	bad = testSetup()
	bad.Projector.HorizontalFOV = 180
	if err := bad.Validate(); err == nil {
		t.Fatal("180 degree FOV accepted")
	}

	bad = testSetup()
	bad.Camera.VerticalFOV = -10
	if err := bad.Validate(); err == nil {
		t.Fatal("negative FOV accepted")
	}

	// negative separation is a valid geometry (projector on the other side)
	ok := testSetup()
	ok.CameraProjectorSeparation = -0.25
	if err := ok.Validate(); err != nil {
		t.Fatalf("negative separation rejected: %v", err)
	}
}

func TestSetupIDDeterministic(t *testing.T) {
	a := SetupID("Virtual", testSetup())
	b := SetupID("Virtual", testSetup())
	if a != b {
		t.Fatalf("SetupID not deterministic: %d != %d", a, b)
	}
}

func TestSetupIDDivergesWithSetup(t *testing.T) {
	base := SetupID("Virtual", testSetup())

	other := testSetup()
	other.CameraProjectorSeparation = 0.3
	if got := SetupID("Virtual", other); got == base {
		t.Fatal("SetupID identical for different separations")
	}
	if got := SetupID("Physical", testSetup()); got == base {
		t.Fatal("SetupID identical for different names")
	}
}
