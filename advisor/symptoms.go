// SPDX-License-Identifier: GPL-3.0-or-later

package advisor

// Default values in the command templates are the stock Betaflight 4.4
// profile. They only matter when the caller supplies no dump, or the
// dump does not carry the parameter.
var symptoms = []Symptom{
	{
		ID:       "oscillation_after_flip",
		Label:    "Oscillation after flips and rolls",
		Category: "oscillation",
		Diagnosis: "Shaking right after a flip or roll usually means the D term is too high, " +
			"or the D term filter cutoff sits so low that noise keeps driving the motors " +
			"after the maneuver. P that is too high contributes when the shake already " +
			"starts during the maneuver itself.",
		PrimaryCause: "high D term or low D term filter cutoff",
		Adjustments: []Adjustment{
			{Param: "d_roll / d_pitch", Direction: "lower", Amount: "2 or 3 steps of 5%",
				Reason: "less D means less response to post-maneuver noise"},
			{Param: "dterm_lpf1_hz", Direction: "lower", Amount: "10 to 20 Hz down",
				Reason: "a lower cutoff filters more of the noise that D amplifies"},
			{Param: "p_roll / p_pitch", Direction: "lower slightly", Amount: "2 or 3 down if P is high",
				Reason: "excess P feeds the oscillation"},
		},
		Template: []string{
			"# fix: oscillation after flips",
			`set d_roll = {{ sub (param "d_roll" 40) 3 }}`,
			`set d_pitch = {{ sub (param "d_pitch" 46) 3 }}`,
			`set dterm_lpf1_hz = {{ sub (param "dterm_lpf1_hz" 100) 15 }}`,
			"save",
		},
		Tips: []string{
			"lower D in steps of 3 and refly after each change",
			"if propwash gets worse after lowering D, the D was needed, tune the filter instead",
			"use blackbox to see where gyro noise jumps",
		},
	},
	{
		ID:       "propwash",
		Label:    "Propwash wobble on throttle chops",
		Category: "propwash",
		Diagnosis: "Propwash hits when the throttle is chopped and reapplied and the craft " +
			"falls through the turbulent air its own props produced. Low D, low I and " +
			"low P all make it worse, and a poor RPM filter keeps the motors from " +
			"responding smoothly.",
		PrimaryCause: "D term too low, poor RPM filtering",
		Adjustments: []Adjustment{
			{Param: "d_roll / d_pitch", Direction: "raise", Amount: "3 to 5 up",
				Reason: "D damps propwash best"},
			{Param: "i_roll / i_pitch", Direction: "check", Amount: "should sit around 85 to 95",
				Reason: "low I loses the attitude lock through throttle changes"},
			{Param: "anti_gravity", Direction: "raise", Amount: "try 7 to 10",
				Reason: "anti gravity boosts I briefly on fast throttle moves"},
			{Param: "rpm_filter", Direction: "enable", Amount: "set to ON",
				Reason: "the RPM filter removes motor noise so the motors run smoother"},
		},
		Template: []string{
			"# fix: propwash",
			`set d_roll = {{ add (param "d_roll" 40) 4 }}`,
			`set d_pitch = {{ add (param "d_pitch" 46) 4 }}`,
			"set anti_gravity_gain = 8",
			"set iterm_relax = RPH # keeps I from winding up during maneuvers",
			"set iterm_relax_type = SETPOINT",
			"save",
		},
		Tips: []string{
			"propwash is hard to remove completely, expect several test flights",
			"the RPM filter matters most here, verify it is on",
			"fresh well balanced props help a lot",
		},
	},
	{
		ID:       "bounce_back",
		Label:    "Bounce back after maneuvers",
		Category: "oscillation",
		Diagnosis: "The craft overshoots the target attitude and springs back after a roll " +
			"or flip. The usual cause is P too high, or D too low to damp the " +
			"overshoot. High feedforward can also start the maneuver harder than " +
			"the stick asked for.",
		PrimaryCause: "high P or low D",
		Adjustments: []Adjustment{
			{Param: "p_roll / p_pitch", Direction: "lower", Amount: "3 to 5 down",
				Reason: "less P reduces the tendency to overshoot"},
			{Param: "d_roll / d_pitch", Direction: "raise", Amount: "2 to 4 up",
				Reason: "D damps the overshoot directly"},
			{Param: "feedforward", Direction: "lower", Amount: "10 to 15 down if above 30",
				Reason: "high feedforward starts the maneuver too hard"},
		},
		Template: []string{
			"# fix: bounce back",
			`set p_roll = {{ sub (param "p_roll" 45) 4 }}`,
			`set p_pitch = {{ sub (param "p_pitch" 47) 4 }}`,
			`set d_roll = {{ add (param "d_roll" 40) 3 }}`,
			`set d_pitch = {{ add (param "d_pitch" 46) 3 }}`,
			"set feedforward_roll = 25 # lower feedforward if it sits above 30",
			"save",
		},
		Tips: []string{
			"if lowering P makes the craft feel soft, raise feedforward instead of P",
			"check blackbox for the setpoint versus gyro trace around the bounce",
		},
	},
	{
		ID:       "yaw_spin",
		Label:    "Yaw spin or drift after flips",
		Category: "yaw",
		Diagnosis: "The craft keeps rotating or drifts on the yaw axis after a flip or " +
			"roll. The usual causes are yaw P too high, yaw I too low or motors " +
			"that are not matched, often from uneven ESC calibration.",
		PrimaryCause: "high yaw P, low yaw I or motor imbalance",
		Adjustments: []Adjustment{
			{Param: "p_yaw", Direction: "lower", Amount: "5 to 10 down",
				Reason: "yaw P runs lower than roll and pitch"},
			{Param: "i_yaw", Direction: "raise", Amount: "5 to 10 up",
				Reason: "I holds the yaw heading"},
			{Param: "yaw_stop_time", Direction: "lower", Amount: "try 0.02",
				Reason: "tunes how fast a yaw move stops"},
		},
		Template: []string{
			"# fix: yaw spin",
			`set p_yaw = {{ sub (param "p_yaw" 45) 8 }}`,
			`set i_yaw = {{ add (param "i_yaw" 80) 8 }}`,
			"# also verify motor direction and redo the ESC calibration",
			"save",
		},
		Tips: []string{
			"tighten the motor screws, a loose motor drifts in yaw",
			"verify all four props face the right direction",
			"redo the ESC calibration on all motors at once",
		},
	},
	{
		ID:       "toilet_bowl",
		Label:    "Toilet bowl circling in a hover",
		Category: "gps_or_pid",
		Diagnosis: "Circling during a hover usually means the I term is too low to hold " +
			"position, or yaw drifts while roll and pitch P are out of balance. " +
			"With GPS on board a miscalibrated compass produces the same motion.",
		PrimaryCause: "low I term, yaw drift or compass miscalibration",
		Adjustments: []Adjustment{
			{Param: "i_roll / i_pitch", Direction: "raise", Amount: "5 up",
				Reason: "more I rejects wind and holds the attitude"},
			{Param: "p_yaw", Direction: "lower slightly", Amount: "3 down",
				Reason: "calms an overly sharp yaw response"},
		},
		Template: []string{
			"# fix: toilet bowl",
			`set i_roll = {{ add (param "i_roll" 80) 5 }}`,
			`set i_pitch = {{ add (param "i_pitch" 84) 5 }}`,
			`set p_yaw = {{ sub (param "p_yaw" 45) 3 }}`,
			"# with GPS on board, recalibrate the compass",
			"save",
		},
		Tips: []string{
			"test in calm air first to separate wind from PID problems",
			"verify the IMU orientation setting matches how the board is mounted",
		},
	},
	{
		ID:       "slow_response",
		Label:    "Slow, mushy stick response",
		Category: "response",
		Diagnosis: "The craft answers stick input late or feels mushy. The usual causes " +
			"are P too low, feedforward too low or filtering so aggressive that it " +
			"adds latency. Low rates feel the same even when the PIDs are fine.",
		PrimaryCause: "low P, low feedforward or aggressive filtering",
		Adjustments: []Adjustment{
			{Param: "p_roll / p_pitch", Direction: "raise", Amount: "3 to 5 up",
				Reason: "more P answers faster"},
			{Param: "feedforward", Direction: "raise", Amount: "10 to 20 up",
				Reason: "feedforward responds to stick velocity directly"},
			{Param: "gyro_lpf1_hz", Direction: "raise", Amount: "20 to 30 Hz up",
				Reason: "less filtering means less latency"},
		},
		Template: []string{
			"# fix: slow response",
			`set p_roll = {{ add (param "p_roll" 45) 4 }}`,
			`set p_pitch = {{ add (param "p_pitch" 47) 4 }}`,
			`set feedforward_roll = {{ add (param "feedforward_roll" 120) 15 }}`,
			`set feedforward_pitch = {{ add (param "feedforward_pitch" 125) 15 }}`,
			`set gyro_lpf1_hz = {{ add (param "gyro_lpf1_hz" 250) 20 }} # only if noise allows`,
			"save",
		},
		Tips: []string{
			"check the rates first, low rates feel slow no matter the PIDs",
			"raise P in steps of 3 until it shakes, then back off",
		},
	},
	{
		ID:       "motor_hot",
		Label:    "Motors hot after flying",
		Category: "thermal",
		Diagnosis: "Motors come down hotter than normal. A high D term drives continuous " +
			"current into them, props can be too heavy for the motor KV, and weak " +
			"filtering makes the motors work against noise. ESC desync that makes " +
			"a motor stutter heats it as well.",
		PrimaryCause: "high D term, heavy props or weak filtering",
		Adjustments: []Adjustment{
			{Param: "d_roll / d_pitch", Direction: "lower", Amount: "3 to 5 down",
				Reason: "high D pushes continuous current into the motors"},
			{Param: "dterm_lpf1_hz", Direction: "lower", Amount: "15 to 20 Hz down",
				Reason: "more D term filtering removes the high frequency noise that drives the motors"},
			{Param: "rpm_filter", Direction: "enable", Amount: "set to ON",
				Reason: "the RPM filter removes motor noise most effectively"},
			{Param: "motor_pwm_protocol", Direction: "check", Amount: "use DSHOT600",
				Reason: "a digital protocol avoids ESC desync"},
		},
		Template: []string{
			"# fix: hot motors",
			`set d_roll = {{ sub (param "d_roll" 40) 4 }}`,
			`set d_pitch = {{ sub (param "d_pitch" 46) 4 }}`,
			`set dterm_lpf1_hz = {{ sub (param "dterm_lpf1_hz" 100) 15 }}`,
			"set motor_pwm_protocol = DSHOT600",
			"# also check prop balance, motor screws and airflow",
			"save",
		},
		Tips: []string{
			"touch the motors after a two minute flight, they should stay under 60 degrees",
			"one hot motor points at that motor or its ESC, all four hot points at the tune",
			"heavier props than the motor is rated for overheat it regardless of the tune",
		},
	},
	{
		ID:       "jello_footage",
		Label:    "Jello in camera footage",
		Category: "video",
		Diagnosis: "Jello shows up when frame vibration sits near the rolling shutter " +
			"rate of the camera. The real causes are unbalanced props, worn motor " +
			"bearings or frame resonance. A poor tune feeds extra oscillation into " +
			"the frame on top of that.",
		PrimaryCause: "unbalanced props, worn bearings or frame resonance",
		Adjustments: []Adjustment{
			{Param: "gyro_lpf1_hz", Direction: "lower", Amount: "20 to 30 Hz down",
				Reason: "more gyro filtering keeps the vibration away from the control loop"},
			{Param: "d_roll / d_pitch", Direction: "lower", Amount: "2 to 3 down",
				Reason: "less D lowers the motor buzz"},
		},
		Template: []string{
			"# fix: jello footage",
			`set gyro_lpf1_hz = {{ sub (param "gyro_lpf1_hz" 250) 20 }}`,
			`set d_roll = {{ sub (param "d_roll" 40) 2 }}`,
			`set d_pitch = {{ sub (param "d_pitch" 46) 2 }}`,
			"# the real fix is balanced props and a damped camera mount",
			"save",
		},
		Tips: []string{
			"filter and PID changes are a workaround, not the fix",
			"balance every prop, a strip of tape on the light blade is enough",
			"spin each motor by hand, a rough bearing needs replacing",
		},
	},
	{
		ID:       "esc_desync",
		Label:    "ESC desync, motor stops mid-air",
		Category: "esc",
		Diagnosis: "An ESC desync means the ESC loses the motor timing and the motor " +
			"stops cold, usually one motor at a time, and the craft spins or " +
			"drops. Causes include too little demag compensation, throttle so low " +
			"the motor stalls, an analog protocol on an old ESC, or a motor KV " +
			"too high for the pack voltage.",
		PrimaryCause: "ESC demag, analog protocol, high KV or idle too low",
		Adjustments: []Adjustment{
			{Param: "motor_pwm_protocol", Direction: "change", Amount: "DSHOT300 or DSHOT600",
				Reason: "digital protocols do not desync the way analog ones do"},
			{Param: "dshot_bidir", Direction: "enable", Amount: "ON",
				Reason: "bidirectional DShot plus the RPM filter prevents desync best"},
			{Param: "motor_poles", Direction: "check", Amount: "match the motor spec",
				Reason: "a wrong pole count reports wrong RPM and invites desync"},
			{Param: "min_throttle", Direction: "raise", Amount: "try 1020 to 1030",
				Reason: "a very low idle lets the motor stop and stall"},
		},
		Template: []string{
			"# fix: ESC desync",
			"set motor_pwm_protocol = DSHOT600",
			"set dshot_bidir = ON",
			"set motor_poles = 14 # check the spec of your motors",
			"set min_throttle = 1020",
			"# update the ESC firmware and raise demag compensation to high",
			"save",
		},
		Tips: []string{
			"DSHOT600 with bidirectional DShot fixes most desyncs, do that first",
			"in blackbox a desyncing motor shows its output jumping abnormally",
			"high KV motors above 2800 on 4S may need an RPM limit in the ESC firmware",
			"if only one motor desyncs, swap that ESC or motor",
			"a worn motor bearing loads unevenly and can desync on its own",
		},
	},
	{
		ID:       "wind_rejection",
		Label:    "Poor wind rejection, drifts in wind",
		Category: "pid_advanced",
		Diagnosis: "The craft cannot hold attitude or position in wind and needs constant " +
			"stick correction. The usual cause is an I term too low to reject the " +
			"disturbance, anti gravity too low, or an iterm_relax setup that keeps " +
			"I from doing its job.",
		PrimaryCause: "low I term, wrong iterm_relax or low anti gravity",
		Adjustments: []Adjustment{
			{Param: "i_roll / i_pitch", Direction: "raise", Amount: "5 to 10 up",
				Reason: "more I rejects the wind disturbance"},
			{Param: "i_yaw", Direction: "raise", Amount: "3 to 5 up",
				Reason: "yaw I holds the heading in wind"},
			{Param: "iterm_relax", Direction: "check", Amount: "should be RPH or RP",
				Reason: "iterm_relax OFF keeps I from accumulating in flight"},
			{Param: "anti_gravity_gain", Direction: "raise", Amount: "try 7 to 12",
				Reason: "anti gravity raises I briefly on throttle changes against gusts"},
		},
		Template: []string{
			"# fix: wind rejection",
			`set i_roll = {{ add (param "i_roll" 80) 8 }}`,
			`set i_pitch = {{ add (param "i_pitch" 84) 8 }}`,
			`set i_yaw = {{ add (param "i_yaw" 80) 5 }}`,
			"set iterm_relax = RPH",
			"set iterm_relax_type = SETPOINT",
			"set iterm_relax_cutoff = 15",
			"set anti_gravity_gain = 10",
			"save",
		},
		Tips: []string{
			"test in real wind, raise I in steps of 5 until the craft holds",
			"iterm_relax RPH keeps I working without winding up during maneuvers",
			"long range builds want more I than freestyle builds",
			"check the center of gravity, an off center build drifts no matter the PIDs",
		},
	},
	{
		ID:       "not_arming",
		Label:    "Refuses to arm, or motors stay still",
		Category: "setup",
		Diagnosis: "The craft refuses to arm. Common causes are a throttle stick that " +
			"does not reach the bottom, stick endpoints out of range, an " +
			"uncalibrated accelerometer, a failed pre-arm check or a mode switch " +
			"that is not set up. Betaflight 4.3 and later reports the exact " +
			"arming disabled flags.",
		PrimaryCause: "failed pre-arm check, stick calibration or mode setup",
		Adjustments: []Adjustment{
			{Param: "status (CLI check)", Direction: "check", Amount: "run status in the CLI",
				Reason: "lists every arming disabled reason"},
			{Param: "min_check", Direction: "check", Amount: "should be 1050 to 1100",
				Reason: "a min_check below the stick endpoint blocks arming"},
			{Param: "max_check", Direction: "check", Amount: "should be 1900",
				Reason: "verifies the transmitter endpoint"},
			{Param: "small_angle", Direction: "check", Amount: "set small_angle = 25",
				Reason: "a craft tilted past small_angle will not arm"},
		},
		Template: []string{
			"# why it will not arm",
			"status # shows the arming disabled flags",
			"set small_angle = 25 # allows arming at more tilt",
			"set min_check = 1050",
			"set max_check = 1900",
			"# the throttle channel must read 1000 with the stick at the bottom",
			"# run calib_acc in the CLI with the board sitting flat and still",
			"save",
		},
		Tips: []string{
			"type status in the CLI to see every arming disabled reason",
			"the frequent ones are THROTTLE, ANGLE, NOPREARM, MSP and FAILSAFE",
			"check the receiver bind first, no signal means no arming at all",
			"on 4.4 and later a prearm mode switch makes arming more predictable",
			"an unplugged motor can make the board report a fault",
		},
	},
	{
		ID:       "turtle_mode_fail",
		Label:    "Turtle mode does not flip the craft",
		Category: "setup",
		Diagnosis: "Flip over after crash does nothing or works only partially. Causes " +
			"are a mode switch that was never assigned, wrong motor direction, or " +
			"an ESC setup without DShot, which turtle mode requires.",
		PrimaryCause: "mode not assigned, non DShot protocol or motor direction",
		Adjustments: []Adjustment{
			{Param: "motor_pwm_protocol", Direction: "change", Amount: "DSHOT300 or higher",
				Reason: "turtle mode needs DShot, Oneshot and Multishot cannot do it"},
			{Param: "flip_over_after_crash", Direction: "assign", Amount: "bind a switch in modes",
				Reason: "without a mode switch it never activates"},
		},
		Template: []string{
			"# turtle mode setup",
			"set motor_pwm_protocol = DSHOT600 # must be DShot",
			"# assign flip over after crash to a switch in the modes tab",
			"# in the ESC configurator enable bidirectional mode",
			"save",
		},
		Tips: []string{
			"turtle mode always needs DSHOT300 or better, check that before anything else",
			"if some motors spin the wrong way in turtle mode, check motor direction",
			"use low power, a prop digging into grass at full power breaks the motor",
			"release the switch as soon as the craft is upright",
		},
	},
	{
		ID:       "video_breakup",
		Label:    "FPV video breakup",
		Category: "vtx",
		Diagnosis: "The FPV picture breaks up or drops out in flight. Typical causes are " +
			"a VTX that overheats and throttles its output, voltage sag on the VTX " +
			"supply, a damaged antenna, transmit power set too low, or a channel " +
			"clash with another VTX nearby.",
		PrimaryCause: "hot VTX, voltage sag, damaged antenna or channel clash",
		Adjustments: []Adjustment{
			{Param: "vtx_power", Direction: "raise", Amount: "200mW or more outdoors",
				Reason: "low transmit power breaks up as the distance grows"},
			{Param: "vtx_channel", Direction: "change", Amount: "pick a free channel",
				Reason: "overlapping channels interfere with each other"},
		},
		Template: []string{
			"# VTX settings for SmartAudio or Tramp",
			"set vtx_power = 3 # level 3 is commonly 200mW, depends on the VTX",
			"set vtx_channel = 6",
			"set vtx_band = 5 # Raceband",
			"# check the VTX solder joints and the capacitor on the power lead",
			"save",
		},
		Tips: []string{
			"a 470 to 1000uF capacitor on the VTX supply removes most voltage sag",
			"a VTX without airflow throttles its own power when hot",
			"a bent or broken antenna loses more than half the range",
			"if the picture is clean on the bench but breaks in flight, suspect voltage sag",
			"with SmartAudio the OSD menu changes channels without landing",
		},
	},
}
